package parser

import (
	"fmt"
	"net/mail"
	"strings"
)

// ParseEmail validates an assignee address and returns it in bare form
// ("Sarah <sarah@x.io>" becomes "sarah@x.io"). The domain is lowercased.
func ParseEmail(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("email is empty")
	}

	addr, err := mail.ParseAddress(input)
	if err != nil {
		return "", fmt.Errorf("invalid email %q", input)
	}

	at := strings.LastIndex(addr.Address, "@")
	if at <= 0 || !strings.Contains(addr.Address[at:], ".") {
		return "", fmt.Errorf("invalid email %q", input)
	}
	return addr.Address[:at] + strings.ToLower(addr.Address[at:]), nil
}

// IsEmail reports whether input looks like an e-mail address
func IsEmail(input string) bool {
	_, err := ParseEmail(input)
	return err == nil
}
