package finance

import (
	"slices"
	"strings"
)

// Categories holds the user editable labels offered for income and expense
// transactions. Editing a list never changes recorded transactions: a
// renamed or removed label stays on the transactions that used it.
type Categories struct {
	Income  []string
	Expense []string
}

// DefaultCategories returns the lists a fresh book starts with.
func DefaultCategories() Categories {
	return Categories{
		Income:  []string{"Salary", "Freelance", "Investments", "Gifts", "Other"},
		Expense: []string{"Rent", "Food", "Transport", "Utilities", "Entertainment", "Healthcare", "Shopping", "Other"},
	}
}

// Of returns the list for kind.
func (c Categories) Of(kind Kind) []string {
	if kind == Expense {
		return c.Expense
	}
	return c.Income
}

func (c Categories) with(kind Kind, list []string) Categories {
	if kind == Expense {
		c.Expense = list
	} else {
		c.Income = list
	}
	return c
}

// Add returns a copy of c with name appended to the kind list.
func (c Categories) Add(kind Kind, name string) (Categories, error) {
	if !kind.valid() {
		return c, invalid("kind", "unknown transaction kind %q", kind)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return c, invalid("category", "category name is empty")
	}
	list := c.Of(kind)
	if slices.Contains(list, name) {
		return c, invalid("category", "%s category %q already exists", kind, name)
	}
	return c.with(kind, append(slices.Clip(list), name)), nil
}

// Rename returns a copy of c where old is replaced by name, at the same
// position.
func (c Categories) Rename(kind Kind, old, name string) (Categories, error) {
	if !kind.valid() {
		return c, invalid("kind", "unknown transaction kind %q", kind)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return c, invalid("category", "category name is empty")
	}
	list := c.Of(kind)
	i := slices.Index(list, old)
	if i < 0 {
		return c, invalid("category", "unknown %s category %q", kind, old)
	}
	if old == name {
		return c, nil
	}
	if slices.Contains(list, name) {
		return c, invalid("category", "%s category %q already exists", kind, name)
	}
	list = slices.Clone(list)
	list[i] = name
	return c.with(kind, list), nil
}

// Remove returns a copy of c without name.
func (c Categories) Remove(kind Kind, name string) (Categories, error) {
	if !kind.valid() {
		return c, invalid("kind", "unknown transaction kind %q", kind)
	}
	list := c.Of(kind)
	i := slices.Index(list, name)
	if i < 0 {
		return c, invalid("category", "unknown %s category %q", kind, name)
	}
	return c.with(kind, slices.Delete(slices.Clone(list), i, i+1)), nil
}
