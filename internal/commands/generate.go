package commands

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/go-ports/kontacto/internal/models"
	"github.com/go-ports/kontacto/internal/render"
)

const (
	defaultGenerateCount = 10
	maxGenerateCount     = 1000
	// nameAttempts bounds retries per contact when random names collide.
	nameAttempts = 20
)

var (
	firstNames = []string{
		"Alice", "Bob", "Carol", "David", "Emma", "Frank", "Grace", "Henry",
		"Irene", "Jack", "Karen", "Liam", "Maria", "Noah", "Olivia", "Peter",
		"Quinn", "Rosa", "Samuel", "Tina", "Umar", "Vera", "Walter", "Yuki",
	}
	lastNames = []string{
		"Anderson", "Brown", "Clark", "Davis", "Evans", "Fischer", "Garcia",
		"Harris", "Ivanova", "Johnson", "Kowalski", "Lopez", "Miller", "Nguyen",
		"Owens", "Petrenko", "Roberts", "Smith", "Taylor", "Walker", "Young",
	}
	streets = []string{"Main", "Oak", "Maple", "Cedar", "Park", "Lake", "Hill", "Baker", "Church", "Elm"}
	cities  = []string{"Springfield", "Riverside", "Greenville", "Fairview", "Kyiv", "Lviv", "Madison", "Georgetown"}
	domains = []string{"example.com", "example.org", "mail.test", "inbox.test"}

	noteVerbs   = []string{"buy", "call", "email", "review", "fix", "plan", "book", "read", "clean", "prepare"}
	noteObjects = []string{
		"milk", "the dentist", "the quarterly report", "the garden shed", "train tickets",
		"a birthday gift", "the project proposal", "chapter three", "the garage", "dinner for Friday",
	}
	noteSuffixes = []string{"", " today", " before the weekend", " next week", " asap", " after lunch"}
	noteTags     = []string{"work", "personal", "shopping", "urgent", "family", "ideas", "health", "finance"}
)

func pick(r *rand.Rand, words []string) string { return words[r.IntN(len(words))] }

func randomContact(r *rand.Rand, today models.Date) (*models.Contact, error) {
	first, last := pick(r, firstNames), pick(r, lastNames)
	c, err := models.NewContact(first + " " + last)
	if err != nil {
		return nil, err
	}
	c.SetAddress(fmt.Sprintf("%d %s St, %s", 1+r.IntN(999), pick(r, streets), pick(r, cities)))
	for range 1 + r.IntN(3) {
		_ = c.AddPhone(fmt.Sprintf("555%07d", r.IntN(10_000_000)))
	}
	for i := range 1 + r.IntN(2) {
		local := strings.ToLower(first + "." + last)
		if i > 0 {
			local += fmt.Sprint(r.IntN(100))
		}
		_ = c.AddEmail(local + "@" + pick(r, domains))
	}
	if r.IntN(10) < 6 {
		born := today.Time().AddDate(-(18 + r.IntN(63)), 0, -r.IntN(365))
		bd := models.DateOf(born)
		if err := c.SetBirthday(&bd); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func generateContacts(s *Session, args []string) error {
	count, err := parseCount(args, defaultGenerateCount, maxGenerateCount)
	if err != nil {
		return err
	}
	r, today := s.rand(), models.Today()
	added := 0
	for range count {
		for range nameAttempts {
			c, err := randomContact(r, today)
			if err != nil {
				return err
			}
			if _, taken := s.Contacts.Get(c.Key()); taken {
				continue
			}
			if err := s.Contacts.Add(c); err != nil {
				return err
			}
			added++
			break
		}
	}
	if added < count {
		s.println(render.Warning(fmt.Sprintf("Ran out of unique names after %d contacts.", added)))
	}
	s.println(render.Success(fmt.Sprintf("Generated %d random contacts.", added)))
	return nil
}

func randomNote(r *rand.Rand) (*models.Note, error) {
	verb := pick(r, noteVerbs)
	content := fmt.Sprintf("%s%s %s%s", strings.ToUpper(verb[:1]), verb[1:], pick(r, noteObjects), pick(r, noteSuffixes))
	tags := make([]string, 0, 3)
	for range r.IntN(4) {
		tags = append(tags, pick(r, noteTags))
	}
	return models.NewNote(content, tags...)
}

func generateNotes(s *Session, args []string) error {
	count, err := parseCount(args, defaultGenerateCount, maxGenerateCount)
	if err != nil {
		return err
	}
	r := s.rand()
	for range count {
		n, err := randomNote(r)
		if err != nil {
			return err
		}
		if err := s.Notes.Add(n); err != nil {
			return err
		}
	}
	s.println(render.Success(fmt.Sprintf("Generated %d random notes.", count)))
	return nil
}
