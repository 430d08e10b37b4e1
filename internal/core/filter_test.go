package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransactions() []Transaction {
	return []Transaction{
		{ID: NewID(10), CustomerID: NewID(1), Date: "2024-01-01", Amount: 50},
		{ID: NewID(11), CustomerID: NewID(1), Date: "2024-01-01", Amount: 20},
		{ID: NewID(12), CustomerID: NewID(1), Date: "2024-01-02", Amount: 5},
	}
}

func mixedTransactions() []Transaction {
	return []Transaction{
		{ID: NewID(1), CustomerID: NewID(1), Date: "2022-01-01", Amount: 1000},
		{ID: NewID(2), CustomerID: NewID(2), Date: "2022-01-01", Amount: 550},
		{ID: NewID(3), CustomerID: NewID(1), Date: "2022-01-02", Amount: 2000},
		{ID: NewID(4), CustomerID: ParseID("2"), Date: "2022-01-02", Amount: 1300},
		{ID: NewID(5), CustomerID: NewID(3), Date: "2022-01-01", Amount: 750},
		{ID: NewID(6), CustomerID: NewID(2), Date: "2022-01-03", Amount: 3},
	}
}

func ids(txs []Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.ID.String())
	}
	return out
}

func TestFilterByCustomer(t *testing.T) {
	txs := mixedTransactions()

	tests := []struct {
		name string
		id   ID
		want []string
	}{
		{"numeric match keeps order", NewID(1), []string{"1", "3"}},
		{"string customer ids are not strict matches", NewID(2), []string{"2", "6"}},
		{"unknown customer", NewID(42), []string{}},
		{"NaN matches nothing", NaNID(), []string{}},
		{"string selection never matches strictly", ParseID("1"), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByCustomer(txs, tt.id)
			assert.Equal(t, tt.want, ids(got))
			assert.LessOrEqual(t, len(got), len(txs))
			for _, tx := range got {
				assert.True(t, tx.CustomerID.StrictEqual(tt.id))
			}
		})
	}
}

func TestFilterByMinAmount(t *testing.T) {
	txs := mixedTransactions()

	t.Run("threshold keeps amount >= min", func(t *testing.T) {
		got := FilterByMinAmount(txs, 1000)
		assert.Equal(t, []string{"1", "3", "4"}, ids(got))
	})

	t.Run("negative infinity keeps everything", func(t *testing.T) {
		assert.Equal(t, txs, FilterByMinAmount(txs, math.Inf(-1)))
	})

	t.Run("above every amount yields empty", func(t *testing.T) {
		assert.Empty(t, FilterByMinAmount(txs, 1e9))
	})

	t.Run("NaN matches nothing", func(t *testing.T) {
		got := FilterByMinAmount(txs, math.NaN())
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("scenario threshold 30", func(t *testing.T) {
		got := FilterByMinAmount(sampleTransactions(), 30)
		assert.Equal(t, []string{"10"}, ids(got))
	})
}

func TestFilterDoesNotAliasSource(t *testing.T) {
	txs := sampleTransactions()
	got := FilterByMinAmount(txs, 0)
	got[0].Amount = -1
	assert.Equal(t, 50.0, txs[0].Amount)
}

func TestParseCustomerSelection(t *testing.T) {
	assert.Nil(t, ParseCustomerSelection(""))
	assert.Nil(t, ParseCustomerSelection("  "))
	assert.Nil(t, ParseCustomerSelection("All"))

	id := ParseCustomerSelection("3")
	require.NotNil(t, id)
	assert.True(t, id.StrictEqual(NewID(3)))

	bad := ParseCustomerSelection("abc")
	require.NotNil(t, bad)
	assert.True(t, bad.IsNaN())
}

func TestParseAmountThreshold(t *testing.T) {
	assert.Nil(t, ParseAmountThreshold(""))

	v := ParseAmountThreshold(" 12.5 ")
	require.NotNil(t, v)
	assert.Equal(t, 12.5, *v)

	bad := ParseAmountThreshold("twelve")
	require.NotNil(t, bad)
	assert.True(t, math.IsNaN(*bad))
}

func TestParseFilterMode(t *testing.T) {
	m, err := ParseFilterMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeLastWriter, m)

	m, err = ParseFilterMode("Intersect")
	require.NoError(t, err)
	assert.Equal(t, ModeIntersect, m)

	_, err = ParseFilterMode("union")
	assert.Error(t, err)
}

func TestFilterStateView(t *testing.T) {
	txs := mixedTransactions()
	one := NewID(1)
	min := 1500.0

	t.Run("empty state shows everything", func(t *testing.T) {
		got := FilterState{}.View(txs, ModeLastWriter)
		assert.Equal(t, txs, got)
	})

	t.Run("last writer: amount replaces customer", func(t *testing.T) {
		s := FilterState{}.WithCustomer(&one).WithMinAmount(&min)
		assert.Equal(t, FieldAmount, s.Last)
		assert.Equal(t, []string{"3"}, ids(s.View(txs, ModeLastWriter)))
	})

	t.Run("last writer: customer replaces amount", func(t *testing.T) {
		s := FilterState{}.WithMinAmount(&min).WithCustomer(&one)
		assert.Equal(t, []string{"1", "3"}, ids(s.View(txs, ModeLastWriter)))
	})

	t.Run("intersect applies both", func(t *testing.T) {
		s := FilterState{}.WithMinAmount(&min).WithCustomer(&one)
		assert.Equal(t, []string{"3"}, ids(s.View(txs, ModeIntersect)))
	})

	t.Run("clearing the customer shows the full list", func(t *testing.T) {
		s := FilterState{}.WithCustomer(&one).ClearCustomer()
		assert.Equal(t, txs, s.View(txs, ModeLastWriter))
	})

	t.Run("no recorded interaction applies every predicate", func(t *testing.T) {
		s := FilterState{Customer: &one, MinAmount: &min}
		assert.Equal(t, []string{"3"}, ids(s.View(txs, ModeLastWriter)))
	})
}

func TestFilterStateIsImmutable(t *testing.T) {
	one := NewID(1)
	base := FilterState{}
	next := base.WithCustomer(&one)

	assert.Nil(t, base.Customer)
	assert.Equal(t, FieldNone, base.Last)

	one = NewID(2)
	assert.True(t, next.Customer.Equal(NewID(1)))
}

func TestFilterStateKey(t *testing.T) {
	one := NewID(1)
	a := FilterState{}.WithCustomer(&one)
	b := FilterState{}.WithCustomer(&one)
	assert.Equal(t, a.Key(ModeLastWriter), b.Key(ModeLastWriter))
	assert.NotEqual(t, a.Key(ModeLastWriter), a.Key(ModeIntersect))

	str := ParseID("1")
	c := FilterState{}.WithCustomer(&str)
	assert.NotEqual(t, a.Key(ModeLastWriter), c.Key(ModeLastWriter))
}
