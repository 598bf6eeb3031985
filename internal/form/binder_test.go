package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-adp-console/internal/schema"
)

func TestValidateReportsEveryMissingRequiredField(t *testing.T) {
	binder := NewBinder(schema.Student(), nil)
	binder.SetValue("nis", "2024001")

	result := binder.Validate(binder.Collect())
	require.False(t, result.Valid)
	assert.NotContains(t, result.Errors, "nis")
	assert.Contains(t, result.Errors, "full_name")
	assert.Contains(t, result.Errors, "gender")
	assert.Contains(t, result.Errors, "birth_date")
}

func TestValidatePassesWhenRequiredFieldsFilled(t *testing.T) {
	binder := NewBinder(schema.Student(), nil)
	binder.SetValue("nis", "2024001")
	binder.SetValue("full_name", "Ahmad Fauzi")
	binder.SetValue("gender", "M")
	binder.SetValue("birth_date", "2008-03-14")

	result := binder.Validate(binder.Collect())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateNumericRange(t *testing.T) {
	binder := NewBinder(schema.Subject(), nil)
	binder.SetValue("code", "MTK")
	binder.SetValue("name", "Matematika")
	binder.SetValue("credit_hours", "12")

	result := binder.Validate(binder.Collect())
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors["credit_hours"], "between")

	binder.SetValue("credit_hours", "4")
	result = binder.Validate(binder.Collect())
	assert.True(t, result.Valid)
}

func TestValidateRejectsMalformedDate(t *testing.T) {
	binder := NewBinder(schema.Student(), nil)
	binder.SetValue("nis", "1")
	binder.SetValue("full_name", "A")
	binder.SetValue("gender", "M")
	binder.SetValue("birth_date", "14-03-2008")

	result := binder.Validate(binder.Collect())
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "birth_date")
}

func TestPopulateCollectRoundTrip(t *testing.T) {
	entity := schema.Entity{
		"id":         "abc",
		"nis":        "2024001",
		"full_name":  "Ahmad Fauzi",
		"gender":     "M",
		"birth_date": "2008-03-14",
		"class_name": "X-1",
		"address":    "Jl. Merdeka 12",
		"phone":      "0812000001",
		"active":     true,
	}

	binder := NewBinder(schema.Student(), nil)
	binder.Populate(entity)
	draft := binder.Collect()

	for _, f := range schema.Student().Fields {
		assert.Equal(t, entity[f.Key], draft[f.Key], f.Key)
	}
}

func TestCollectNumberParsing(t *testing.T) {
	binder := NewBinder(schema.Subject(), nil)
	binder.SetValue("credit_hours", "3")
	assert.Equal(t, float64(3), binder.Collect()["credit_hours"])

	// empty numeric input collects as 0 unless the field omits zeroes
	binder.SetValue("credit_hours", "")
	assert.Equal(t, float64(0), binder.Collect()["credit_hours"])

	binder.SetValue("credit_hours", "not a number")
	assert.Equal(t, float64(0), binder.Collect()["credit_hours"])
}

func TestCollectOmitZeroDropsEmptyNumbers(t *testing.T) {
	binder := NewBinder(schema.Shift(), nil)
	binder.SetValue("employee_name", "Andi")

	draft := binder.Collect()
	_, present := draft["worked_hours"]
	assert.False(t, present)
	_, present = draft["overtime_hours"]
	assert.False(t, present)
}

func TestCollectBooleanReadsCheckedState(t *testing.T) {
	binder := NewBinder(schema.Student(), nil)
	assert.Equal(t, false, binder.Collect()["active"])

	binder.SetChecked("active", true)
	assert.Equal(t, true, binder.Collect()["active"])
}

func TestOpenCreateAfterEditClearsEverything(t *testing.T) {
	binder := NewBinder(schema.Student(), nil)
	binder.OpenEdit(schema.Entity{"id": "5", "nis": "2024001", "full_name": "Ahmad Fauzi", "active": true})

	require.Equal(t, EditState{Mode: ModeEdit, TargetID: "5"}, binder.State())
	require.Equal(t, "2024001", binder.Value("nis"))

	binder.OpenCreate()
	assert.Equal(t, EditState{Mode: ModeCreate}, binder.State())
	assert.Empty(t, binder.Value("nis"))
	assert.Empty(t, binder.Value("full_name"))
	assert.Equal(t, false, binder.Collect()["active"])
}

func TestCloseResetsEditState(t *testing.T) {
	binder := NewBinder(schema.Student(), nil)
	binder.OpenEdit(schema.Entity{"id": "9", "nis": "1"})

	binder.Close()
	assert.Equal(t, EditState{Mode: ModeCreate}, binder.State())
	assert.Empty(t, binder.Value("nis"))
}
