package whitelist

import (
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether a recipient address is accepted. Entries are full
// addresses or bare domains. An empty list accepts every address.
type Checker struct {
	addresses map[string]struct{}
	domains   map[string]struct{}
	logger    *zap.Logger
}

// NewChecker creates a new allow-list checker
func NewChecker(entries []string, logger *zap.Logger) *Checker {
	c := &Checker{
		addresses: make(map[string]struct{}),
		domains:   make(map[string]struct{}),
		logger:    logger,
	}

	// Normalize entries (lowercase)
	for _, entry := range entries {
		entry = strings.ToLower(strings.TrimSpace(entry))
		switch {
		case entry == "":
		case strings.HasPrefix(entry, "@"):
			c.domains[entry[1:]] = struct{}{}
		case strings.Contains(entry, "@"):
			c.addresses[entry] = struct{}{}
		default:
			c.domains[entry] = struct{}{}
		}
	}

	if logger != nil {
		if c.Empty() {
			logger.Warn("Recipient allow-list is empty, accepting all recipients")
		} else {
			logger.Info("Initialized recipient allow-list",
				zap.Int("addresses", len(c.addresses)),
				zap.Int("domains", len(c.domains)))
		}
	}
	return c
}

// Empty reports whether the list has no entries
func (c *Checker) Empty() bool {
	return len(c.addresses) == 0 && len(c.domains) == 0
}

// IsAllowed checks if the address, or its domain, is on the list
func (c *Checker) IsAllowed(address string) bool {
	if c.Empty() {
		return true
	}

	addr := strings.TrimSpace(address)
	if parsed, err := mail.ParseAddress(addr); err == nil {
		addr = parsed.Address
	}
	addr = strings.ToLower(addr)

	if _, ok := c.addresses[addr]; ok {
		return true
	}

	// Extract domain from email address
	at := strings.LastIndexByte(addr, '@')
	if at < 0 {
		return false
	}
	domain := addr[at+1:]
	if _, ok := c.domains[domain]; ok {
		if c.logger != nil {
			c.logger.Debug("Domain is allow-listed",
				zap.String("domain", domain),
				zap.String("email", addr))
		}
		return true
	}
	return false
}
