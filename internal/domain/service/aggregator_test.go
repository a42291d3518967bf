package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/model"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/service"
)

func txn(id, customerID string, amount int64, ts time.Time) model.Transaction {
	return model.Transaction{
		ID:              id,
		CustomerID:      customerID,
		Amount:          decimal.NewFromInt(amount),
		Value:           decimal.NewFromInt(amount).Abs(),
		Timestamp:       ts,
		ProductCategory: "airtime",
		ChannelID:       "ChannelId_1",
	}
}

func TestCustomerAggregator_Aggregate(t *testing.T) {
	base := time.Date(2018, 11, 1, 0, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		txn("T1", "C1", 100, base),
		txn("T2", "C1", 200, base.Add(24*time.Hour)),
		txn("T3", "C1", 300, base.Add(48*time.Hour)),
		txn("T4", "C2", 10, base),
	}

	profiles := service.NewCustomerAggregator().Aggregate(txns)
	require.Len(t, profiles, 2)

	c1 := profiles["C1"]
	assert.Equal(t, 600.0, c1.TotalAmount)
	assert.Equal(t, 200.0, c1.AvgAmount)
	assert.Equal(t, 3, c1.TransCount)
	assert.InDelta(t, 100.0, c1.StdAmount, 1e-9)
	assert.Equal(t, 3, c1.UniqueTrans)
}

func TestCustomerAggregator_SingleTransactionStdIsZero(t *testing.T) {
	txns := []model.Transaction{
		txn("T1", "C1", 42, time.Date(2018, 11, 1, 0, 0, 0, 0, time.UTC)),
	}

	profiles := service.NewCustomerAggregator().Aggregate(txns)

	// A single observation has an undefined sample deviation; it must be a
	// defined neutral value, never NaN.
	assert.Equal(t, 0.0, profiles["C1"].StdAmount)
}

func TestCustomerAggregator_OrderIndependent(t *testing.T) {
	base := time.Date(2018, 11, 1, 0, 0, 0, 0, time.UTC)
	forward := []model.Transaction{
		txn("T1", "C1", 100, base),
		txn("T2", "C1", 200, base),
		txn("T3", "C2", -50, base),
	}
	reversed := []model.Transaction{forward[2], forward[1], forward[0]}

	a := service.NewCustomerAggregator()
	assert.Equal(t, a.Aggregate(forward), a.Aggregate(reversed))
}

func TestCustomerAggregator_DuplicateTransactionIDs(t *testing.T) {
	base := time.Date(2018, 11, 1, 0, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		txn("T1", "C1", 100, base),
		txn("T1", "C1", 100, base),
	}

	profiles := service.NewCustomerAggregator().Aggregate(txns)

	assert.Equal(t, 2, profiles["C1"].TransCount)
	assert.Equal(t, 1, profiles["C1"].UniqueTrans)
}
