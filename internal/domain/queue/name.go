package queue

import (
	"strings"
	"unicode/utf8"
)

const MaxNameLength = 100

type Name struct {
	value string
}

func NewName(value string) (Name, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Name{}, ErrEmptyName
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return Name{}, ErrNameTooLong
	}
	return Name{value: trimmed}, nil
}

func (n Name) String() string {
	return n.value
}

func (n Name) IsZero() bool {
	return n.value == ""
}
