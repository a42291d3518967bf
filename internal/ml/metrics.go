package ml

import (
	"fmt"
	"math"
	"sort"
)

// ClassReport holds the per-class evaluation metrics.
type ClassReport struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Evaluation is the held-out evaluation report produced after training. It is
// used for regression testing across retraining runs, not for production
// behavior.
type Evaluation struct {
	LowRisk  ClassReport
	HighRisk ClassReport
	Accuracy float64
	ROCAUC   float64
}

// String renders the evaluation in a compact single-line form for logs.
func (e Evaluation) String() string {
	return fmt.Sprintf(
		"accuracy=%.4f auc=%.4f high_risk{p=%.4f r=%.4f f1=%.4f n=%d} low_risk{p=%.4f r=%.4f f1=%.4f n=%d}",
		e.Accuracy, e.ROCAUC,
		e.HighRisk.Precision, e.HighRisk.Recall, e.HighRisk.F1, e.HighRisk.Support,
		e.LowRisk.Precision, e.LowRisk.Recall, e.LowRisk.F1, e.LowRisk.Support,
	)
}

// Evaluate computes per-class precision, recall and F1, overall accuracy, and
// the area under the ROC curve from true labels, predicted labels and
// positive-class probabilities.
func Evaluate(yTrue, yPred []int, probs []float64) Evaluation {
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}

	eval := Evaluation{
		LowRisk:  classReport(yTrue, yPred, 0),
		HighRisk: classReport(yTrue, yPred, 1),
		ROCAUC:   rocAUC(yTrue, probs),
	}
	if len(yTrue) > 0 {
		eval.Accuracy = float64(correct) / float64(len(yTrue))
	}
	return eval
}

func classReport(yTrue, yPred []int, class int) ClassReport {
	var tp, fp, fn, support int
	for i := range yTrue {
		if yTrue[i] == class {
			support++
		}
		switch {
		case yPred[i] == class && yTrue[i] == class:
			tp++
		case yPred[i] == class && yTrue[i] != class:
			fp++
		case yPred[i] != class && yTrue[i] == class:
			fn++
		}
	}

	report := ClassReport{Support: support}
	if tp+fp > 0 {
		report.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		report.Recall = float64(tp) / float64(tp+fn)
	}
	if report.Precision+report.Recall > 0 {
		report.F1 = 2 * report.Precision * report.Recall / (report.Precision + report.Recall)
	}
	return report
}

// rocAUC computes the area under the ROC curve via the rank-sum formulation,
// with midranks for tied probabilities. Returns NaN when the evaluation set
// contains only one class.
func rocAUC(yTrue []int, probs []float64) float64 {
	type scored struct {
		prob  float64
		label int
	}
	items := make([]scored, len(yTrue))
	for i := range yTrue {
		items[i] = scored{prob: probs[i], label: yTrue[i]}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].prob < items[j].prob })

	var nPos, nNeg int
	var rankSumPos float64
	i := 0
	for i < len(items) {
		j := i
		for j < len(items) && items[j].prob == items[i].prob {
			j++
		}
		// Ranks are 1-based; ties share the midrank.
		midrank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			if items[k].label == 1 {
				rankSumPos += midrank
			}
		}
		i = j
	}
	for _, it := range items {
		if it.label == 1 {
			nPos++
		} else {
			nNeg++
		}
	}

	if nPos == 0 || nNeg == 0 {
		return math.NaN()
	}
	return (rankSumPos - float64(nPos)*float64(nPos+1)/2) / (float64(nPos) * float64(nNeg))
}
