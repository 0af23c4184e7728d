package models_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/kontacto/internal/models"
)

// pinNow fixes the model clock for the duration of the test.
func pinNow(c *qt.C, ts time.Time) {
	c.Patch(&models.Now, func() time.Time { return ts })
}

func TestNewContact(t *testing.T) {
	c := qt.New(t)
	ts := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	pinNow(c, ts)

	ct, err := models.NewContact("  Jane Doe ")
	c.Assert(err, qt.IsNil)
	c.Assert(ct.Name, qt.Equals, "Jane Doe")
	c.Assert(ct.Key(), qt.Equals, "jane doe")
	c.Assert(ct.CreatedAt, qt.Equals, ts)

	_, err = models.NewContact("   ")
	c.Assert(err, qt.ErrorIs, models.ErrValidation)
}

func TestContact_Phones(t *testing.T) {
	c := qt.New(t)
	ct, err := models.NewContact("Jane")
	c.Assert(err, qt.IsNil)

	c.Assert(ct.AddPhone("555-123-4567"), qt.IsNil)
	c.Assert(ct.AddPhone("5551234567"), qt.ErrorMatches, `.*already exists`)
	c.Assert(ct.AddPhone("12"), qt.ErrorIs, models.ErrValidation)
	c.Assert(ct.AddPhone("+380441234567"), qt.IsNil)
	c.Assert(ct.Phones, qt.DeepEquals, []string{"5551234567", "+380441234567"})

	c.Assert(ct.ReplacePhone("5551234567", "5559876543"), qt.IsNil)
	c.Assert(ct.Phones, qt.DeepEquals, []string{"5559876543", "+380441234567"})
	c.Assert(ct.ReplacePhone("5550000000", "5551111111"), qt.ErrorMatches, `.*not found`)
	c.Assert(ct.ReplacePhone("5559876543", "+380441234567"), qt.ErrorMatches, `.*already exists`)

	c.Assert(ct.RemovePhone("5559876543"), qt.IsNil)
	c.Assert(ct.RemovePhone("+380441234567"), qt.IsNil)
	c.Assert(ct.Phones, qt.IsNil)
	c.Assert(ct.RemovePhone("+380441234567"), qt.ErrorIs, models.ErrValidation)
}

func TestContact_Emails(t *testing.T) {
	c := qt.New(t)
	ct, err := models.NewContact("Jane")
	c.Assert(err, qt.IsNil)

	c.Assert(ct.AddEmail("Jane@X.com"), qt.IsNil)
	c.Assert(ct.AddEmail("jane@x.com"), qt.ErrorMatches, `.*already exists`)
	c.Assert(ct.ReplaceEmail("JANE@x.com", "doe@y.org"), qt.IsNil)
	c.Assert(ct.Emails, qt.DeepEquals, []string{"doe@y.org"})
	c.Assert(ct.RemoveEmail("nobody@y.org"), qt.ErrorMatches, `.*not found`)
	c.Assert(ct.RemoveEmail("doe@y.org"), qt.IsNil)
	c.Assert(ct.Emails, qt.IsNil)
}

func TestContact_Birthday(t *testing.T) {
	c := qt.New(t)
	pinNow(c, time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC))
	ct, err := models.NewContact("Jane")
	c.Assert(err, qt.IsNil)

	_, ok := ct.DaysUntilBirthday(models.Today())
	c.Assert(ok, qt.IsFalse)

	c.Assert(ct.SetBirthday(&models.Date{Year: 2030, Month: time.January, Day: 1}), qt.ErrorIs, models.ErrValidation)
	c.Assert(ct.Birthday, qt.IsNil)

	c.Assert(ct.SetBirthday(&models.Date{Year: 1990, Month: time.October, Day: 25}), qt.IsNil)
	days, ok := ct.DaysUntilBirthday(models.Today())
	c.Assert(ok, qt.IsTrue)
	c.Assert(days, qt.Equals, 6)

	c.Assert(ct.SetBirthday(nil), qt.IsNil)
	c.Assert(ct.Birthday, qt.IsNil)
}

func TestContact_Matches(t *testing.T) {
	c := qt.New(t)
	ct := &models.Contact{
		Name:     "Jane Doe",
		Address:  "12 Baker Street",
		Phones:   []string{"5551234567"},
		Emails:   []string{"jane@x.com"},
		Birthday: &models.Date{Year: 1990, Month: time.May, Day: 4},
	}

	for _, q := range []string{"jane", "DOE", "baker", "1234", "x.com", "1990-05"} {
		c.Assert(ct.Matches(q), qt.IsTrue, qt.Commentf("query %q", q))
	}
	c.Assert(ct.Matches("john"), qt.IsFalse)
}

func TestContact_Validate(t *testing.T) {
	c := qt.New(t)
	c.Assert((&models.Contact{Name: "Jane", Phones: []string{"5551234567"}}).Validate(), qt.IsNil)
	c.Assert((&models.Contact{}).Validate(), qt.ErrorIs, models.ErrValidation)
	c.Assert((&models.Contact{Name: "Jane", Emails: []string{"bad"}}).Validate(), qt.ErrorIs, models.ErrValidation)
}
