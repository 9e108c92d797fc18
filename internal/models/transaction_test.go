package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		fields  []string
		want    TransactionRecord
		amount  string
		wantErr string
	}{
		{
			name:   "deposit",
			fields: []string{"deposit", "1", "1", "1.0"},
			want:   TransactionRecord{Kind: KindDeposit, Client: 1, Tx: 1},
			amount: "1",
		},
		{
			name:   "withdraw with surrounding whitespace",
			fields: []string{" withdraw ", " 2 ", " 5 ", " 1.5 "},
			want:   TransactionRecord{Kind: KindWithdraw, Client: 2, Tx: 5},
			amount: "1.5",
		},
		{
			name:   "four decimal places",
			fields: []string{"deposit", "1", "2", "0.1234"},
			want:   TransactionRecord{Kind: KindDeposit, Client: 1, Tx: 2},
			amount: "0.1234",
		},
		{
			name:   "zero amount is allowed",
			fields: []string{"deposit", "1", "3", "0"},
			want:   TransactionRecord{Kind: KindDeposit, Client: 1, Tx: 3},
			amount: "0",
		},
		{
			name:   "dispute with empty amount column",
			fields: []string{"dispute", "1", "1", ""},
			want:   TransactionRecord{Kind: KindDispute, Client: 1, Tx: 1},
		},
		{
			name:   "resolve without amount column",
			fields: []string{"resolve", "1", "1"},
			want:   TransactionRecord{Kind: KindResolve, Client: 1, Tx: 1},
		},
		{
			name:   "chargeback with blank amount",
			fields: []string{"chargeback", "65535", "4294967295", "  "},
			want:   TransactionRecord{Kind: KindChargeback, Client: 65535, Tx: 4294967295},
		},
		{
			name:    "unknown kind",
			fields:  []string{"transfer", "1", "1", "1.0"},
			wantErr: "unknown transaction type",
		},
		{
			name:    "kind is case-sensitive",
			fields:  []string{"Deposit", "1", "1", "1.0"},
			wantErr: "unknown transaction type",
		},
		{
			name:    "deposit without amount",
			fields:  []string{"deposit", "1", "1", ""},
			wantErr: "deposit requires an amount",
		},
		{
			name:    "withdraw without amount column",
			fields:  []string{"withdraw", "1", "1"},
			wantErr: "withdraw requires an amount",
		},
		{
			name:    "negative amount",
			fields:  []string{"deposit", "1", "1", "-1.0"},
			wantErr: "negative amount",
		},
		{
			name:    "non-numeric amount",
			fields:  []string{"deposit", "1", "1", "abc"},
			wantErr: "invalid amount",
		},
		{
			name:    "too many decimal places",
			fields:  []string{"deposit", "1", "1", "1.00001"},
			wantErr: "exceeds 4 decimal places",
		},
		{
			name:    "dispute carrying an amount",
			fields:  []string{"dispute", "1", "1", "1.0"},
			wantErr: "dispute must not carry an amount",
		},
		{
			name:    "client out of range",
			fields:  []string{"deposit", "65536", "1", "1.0"},
			wantErr: "invalid client",
		},
		{
			name:    "tx out of range",
			fields:  []string{"deposit", "1", "4294967296", "1.0"},
			wantErr: "invalid tx",
		},
		{
			name:    "negative client",
			fields:  []string{"deposit", "-1", "1", "1.0"},
			wantErr: "invalid client",
		},
		{
			name:    "too few columns",
			fields:  []string{"deposit", "1"},
			wantErr: "expected 3 or 4 columns",
		},
		{
			name:    "too many columns",
			fields:  []string{"deposit", "1", "1", "1.0", "extra"},
			wantErr: "expected 3 or 4 columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord(tt.fields)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedRecord)
				var malformed *MalformedRecordError
				require.ErrorAs(t, err, &malformed)
				assert.Contains(t, malformed.Reason, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.Equal(t, tt.want.Client, got.Client)
			assert.Equal(t, tt.want.Tx, got.Tx)
			if tt.amount == "" {
				assert.Nil(t, got.Amount)
			} else {
				require.NotNil(t, got.Amount)
				assert.True(t, decimal.RequireFromString(tt.amount).Equal(*got.Amount),
					"amount: want %s, got %s", tt.amount, got.Amount)
			}
		})
	}
}

func TestParseKind_RoundTripsWireNames(t *testing.T) {
	for _, name := range []string{"deposit", "withdraw", "dispute", "resolve", "chargeback"} {
		kind, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, name, kind.String())
	}
}

func TestKind_Monetary(t *testing.T) {
	assert.True(t, KindDeposit.Monetary())
	assert.True(t, KindWithdraw.Monetary())
	assert.False(t, KindDispute.Monetary())
	assert.False(t, KindResolve.Monetary())
	assert.False(t, KindChargeback.Monetary())
}

func TestMalformedRecordError_Message(t *testing.T) {
	err := &MalformedRecordError{Line: 7, Fields: []string{"deposit", "1", "1", "x"}, Reason: "invalid amount"}
	assert.Equal(t, `malformed record at line 7 (deposit,1,1,x): invalid amount`, err.Error())
}
