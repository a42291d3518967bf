package ml

import "math/rand"

// TrainTestSplit shuffles the rows with a seeded generator and splits them
// into train and test partitions. A fixed seed keeps evaluation reproducible
// across retraining runs.
func TrainTestSplit(X [][]float64, y []int, testFraction float64, seed int64) (XTrain, XTest [][]float64, yTrain, yTest []int) {
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(X))

	testSize := int(float64(len(X)) * testFraction)
	for i, idx := range perm {
		if i < testSize {
			XTest = append(XTest, X[idx])
			yTest = append(yTest, y[idx])
		} else {
			XTrain = append(XTrain, X[idx])
			yTrain = append(yTrain, y[idx])
		}
	}
	return XTrain, XTest, yTrain, yTest
}
