package loan

import (
	"testing"

	"loan-engine/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMoney(t *testing.T, expected string, actual Money, field string) {
	t.Helper()
	assert.True(t, d(expected).Equal(actual), "%s: expected %s, got %s", field, expected, actual)
}

func TestAllocate_Automatic(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		due       string
		remaining string
		interest  string
		principal string
		shortfall string
		excess    string
	}{
		{"covers interest and part of principal", "1500", "1000", "10000", "1000", "500", "0", "0"},
		{"underpays interest", "800", "1000", "10000", "800", "0", "200", "0"},
		{"exactly the interest", "1000", "1000", "10000", "1000", "0", "0", "0"},
		{"caps principal at remaining", "550", "50", "500", "50", "500", "0", "0"},
		{"reports overpayment as excess", "700", "50", "500", "50", "500", "0", "150"},
		{"zero interest due", "100", "0", "500", "0", "100", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Allocate(d(tt.amount), d(tt.due), d(tt.remaining), ModeAutomatic, nil)
			require.NoError(t, err)

			assertMoney(t, tt.interest, a.InterestPortion, "interest")
			assertMoney(t, tt.principal, a.PrincipalPortion, "principal")
			assertMoney(t, tt.shortfall, a.InterestShortfall, "shortfall")
			assertMoney(t, tt.excess, a.Excess, "excess")
			assertMoney(t, tt.due, a.InterestDue, "interestDue")

			// money is conserved
			assertMoney(t, tt.amount, a.InterestPortion.Add(a.PrincipalPortion).Add(a.Excess), "conservation")
			if d(tt.amount).LessThan(d(tt.due)) {
				assertMoney(t, tt.due, a.InterestPortion.Add(a.InterestShortfall), "interest plus shortfall")
			} else {
				assertMoney(t, tt.due, a.InterestPortion, "interest first")
			}
			assert.False(t, a.PrincipalPortion.IsNegative())
		})
	}
}

func TestAllocate_AutomaticRejectsNonPositiveAmount(t *testing.T) {
	_, err := Allocate(d("0"), d("10"), d("100"), ModeAutomatic, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = Allocate(d("-5"), d("10"), d("100"), ModeAutomatic, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAllocate_Manual(t *testing.T) {
	t.Run("passes split through", func(t *testing.T) {
		a, err := Allocate(d("0"), d("1000"), d("10000"), ModeManual, &ManualSplit{Interest: d("300"), Principal: d("200")})
		require.NoError(t, err)

		assertMoney(t, "300", a.InterestPortion, "interest")
		assertMoney(t, "200", a.PrincipalPortion, "principal")
		assertMoney(t, "700", a.InterestShortfall, "shortfall")
		assertMoney(t, "500", a.Total(), "total")
	})

	t.Run("principal only", func(t *testing.T) {
		a, err := Allocate(d("0"), d("50"), d("500"), ModeManual, &ManualSplit{Interest: d("0"), Principal: d("500")})
		require.NoError(t, err)
		assertMoney(t, "500", a.PrincipalPortion, "principal")
	})

	tests := []struct {
		name  string
		split *ManualSplit
	}{
		{"principal exceeds remaining", &ManualSplit{Interest: d("1000"), Principal: d("600")}},
		{"negative interest", &ManualSplit{Interest: d("-1"), Principal: d("10")}},
		{"negative principal", &ManualSplit{Interest: d("10"), Principal: d("-1")}},
		{"both zero", &ManualSplit{Interest: d("0"), Principal: d("0")}},
		{"missing split", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Allocate(d("0"), d("50"), d("500"), ModeManual, tt.split)
			assert.ErrorIs(t, err, apperrors.ErrInvalidAllocation)
		})
	}
}

func TestAllocate_UnknownMode(t *testing.T) {
	_, err := Allocate(d("10"), d("1"), d("100"), Mode("split"), nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAutomatic, m)

	m, err = ParseMode("Manual")
	require.NoError(t, err)
	assert.Equal(t, ModeManual, m)

	_, err = ParseMode("other")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
