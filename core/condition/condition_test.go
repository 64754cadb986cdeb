package condition

import (
	"errors"
	"testing"

	"ahb-manager/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testContext() EvaluationContext {
	return NewContext(&model.Anwendungshandbuch{
		Bedingungen: []model.Bedingung{
			{Nummer: "[1]", Text: "Wenn SG4 STS+7++ZG9 vorhanden"},
			{Nummer: "[12]", Text: "Wenn MP-ID in SG2 NAD+MR nicht vorhanden"},
			{Nummer: "[931]", Text: "Format: ZZZ = +00"},
			{Nummer: "[494]", Text: "Das hier genannte Datum muss der Zeitpunkt sein"},
		},
		UbBedingungen: []model.UbBedingung{{Nummer: "[UB3]", Text: "Kommunikation von NB an LF"}},
		Pakete:        []model.Paket{{Nummer: "[4P]", Text: "Paket Bilanzierung"}},
	})
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"12", Key{Kind: KindBedingung, Number: "12"}},
		{"UB3", Key{Kind: KindUbBedingung, Number: "UB3"}},
		{"4P0..1", Key{Kind: KindPaket, Number: "4P", Repetition: "0..1"}},
		{"4P", Key{Kind: KindPaket, Number: "4P"}},
	}
	for _, tt := range tests {
		got, err := ParseKey(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseKey("foo")
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestReferencedKeys(t *testing.T) {
	keys, err := TokenEvaluator{}.ReferencedKeys("Muss [1] ∧ ([12] ∨ [1]) U [UB3] Soll [4P0..1]")
	require.NoError(t, err)
	assert.Equal(t, []Key{
		{Kind: KindBedingung, Number: "1"},
		{Kind: KindBedingung, Number: "12"},
		{Kind: KindUbBedingung, Number: "UB3"},
		{Kind: KindPaket, Number: "4P", Repetition: "0..1"},
	}, keys)

	_, err = TokenEvaluator{}.ReferencedKeys("Muss [1")
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestValidate(t *testing.T) {
	ctx := testContext()
	valid := []string{
		"Muss",
		"X",
		"Muss [1]",
		"Muss [1] ∧ [12]",
		"Soll ([1] ∨ [12]) ⊻ [UB3]",
		"Kann [1] U [12] O [4P0..1]",
		"X [931][494]",
		"Muss [1] Soll [12]",
		"M [1] X [12]",
		"Muss ([1] X [12])",
	}
	for _, expr := range valid {
		assert.NoError(t, TokenEvaluator{}.Validate(ctx, expr), expr)
	}

	invalid := []struct {
		expr string
		err  error
	}{
		{"", ErrSyntax},
		{"Muss [1] ∧", ErrSyntax},
		{"Muss ([1] ∧ [12]", ErrSyntax},
		{"Muss [1])", ErrSyntax},
		{"∧ [1]", ErrSyntax},
		{"Muss U [1]", ErrSyntax},
		{"Muss [1] # [12]", ErrSyntax},
		{"Muss [2]", ErrUndefinedKey},
		{"Soll [5P]", ErrUndefinedKey},
	}
	for _, tt := range invalid {
		assert.ErrorIs(t, TokenEvaluator{}.Validate(ctx, tt.expr), tt.err, tt.expr)
	}
}

func TestResolve(t *testing.T) {
	r := NewResolver(nil)
	ctx := testContext()

	t.Run("text per key", func(t *testing.T) {
		res := r.Resolve(ctx, "UTILMD", "FV2310", "Muss  [1] ∧ [UB3]")
		assert.Equal(t, Resolution{
			FormatVersion: "FV2310",
			Format:        "UTILMD",
			Expression:    "Muss [1] ∧ [UB3]",
			Text:          "[1] Wenn SG4 STS+7++ZG9 vorhanden\n[UB3] Kommunikation von NB an LF",
		}, res)
	})

	t.Run("no keys", func(t *testing.T) {
		res := r.Resolve(ctx, "UTILMD", "FV2310", "Kann")
		assert.Empty(t, res.Text)
		assert.Empty(t, res.Error)
	})

	t.Run("error is recorded", func(t *testing.T) {
		res := r.Resolve(ctx, "UTILMD", "FV2310", "Muss [77]")
		assert.Empty(t, res.Text)
		assert.Contains(t, res.Error, "[77]")
	})
}

func TestResolveAllDeduplicates(t *testing.T) {
	out := NewResolver(nil).ResolveAll(testContext(), "UTILMD", "FV2310", []string{"Muss [1]", "", "Muss  [1]", "Muss [12]", "Muss ["})
	require.Len(t, out, 3)
	assert.Equal(t, "Muss [1]", out[0].Expression)
	assert.Equal(t, "Muss [12]", out[1].Expression)
	assert.NotEmpty(t, out[2].Error)
}

type mockEvaluator struct {
	mock.Mock
}

func (m *mockEvaluator) ReferencedKeys(expr string) ([]Key, error) {
	args := m.Called(expr)
	keys, _ := args.Get(0).([]Key)
	return keys, args.Error(1)
}

func (m *mockEvaluator) Validate(ctx EvaluationContext, expr string) error {
	return m.Called(ctx, expr).Error(0)
}

func TestResolverUsesEvaluator(t *testing.T) {
	ev := new(mockEvaluator)
	ctx := testContext()
	ev.On("Validate", ctx, "Muss [1]").Return(nil)
	ev.On("ReferencedKeys", "Muss [1]").Return(nil, errors.New("engine down"))

	res := NewResolver(ev).Resolve(ctx, "UTILMD", "FV2310", "Muss [1]")
	assert.Equal(t, "engine down", res.Error)
	ev.AssertExpectations(t)
}
