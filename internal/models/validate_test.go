package models_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/kontacto/internal/models"
)

func TestNormalizePhone(t *testing.T) {
	c := qt.New(t)

	valid := []struct{ in, want string }{
		{"+1 (555) 123-4567", "+15551234567"},
		{"555.123.4567", "5551234567"},
		{"+380 44 123 4567", "+380441234567"},
		{"555-1234", "5551234"},
	}
	for _, tt := range valid {
		c.Run(tt.in, func(c *qt.C) {
			got, err := models.NormalizePhone(tt.in)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, tt.want)
		})
	}

	for _, in := range []string{"", "123", "phone", "12345678901234567"} {
		c.Run("invalid "+in, func(c *qt.C) {
			_, err := models.NormalizePhone(in)
			c.Assert(err, qt.ErrorIs, models.ErrValidation)
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	c := qt.New(t)

	got, err := models.NormalizeEmail("  Jane.Doe@Example.COM ")
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "jane.doe@example.com")

	for _, in := range []string{"", "jane", "jane@", "@x.com", "jane@x", "jane doe@x.com"} {
		_, err := models.NormalizeEmail(in)
		c.Assert(err, qt.ErrorIs, models.ErrValidation, qt.Commentf("input %q", in))
	}
}

func TestValidateBirthday(t *testing.T) {
	c := qt.New(t)
	today := models.Date{Year: 2026, Month: time.October, Day: 19}

	c.Assert(models.ValidateBirthday(models.Date{Year: 1990, Month: time.January, Day: 1}, today), qt.IsNil)
	c.Assert(models.ValidateBirthday(today, today), qt.IsNil)
	c.Assert(models.ValidateBirthday(models.Date{Year: 2026, Month: time.October, Day: 20}, today), qt.ErrorIs, models.ErrValidation)
	c.Assert(models.ValidateBirthday(models.Date{Year: 1870, Month: time.January, Day: 1}, today), qt.ErrorIs, models.ErrValidation)
}
