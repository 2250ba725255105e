// Package seed builds the initial AppData for an empty store from YAML.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
	"github.com/yungbote/landcontract-backend/internal/domain/user"
)

//go:embed seed.yaml
var defaultSeed []byte

type document struct {
	Users        []user.User             `yaml:"users"`
	Wards        []contracts.Ward        `yaml:"wards"`
	Contracts    []contracts.Contract    `yaml:"contracts"`
	Liquidations []contracts.Liquidation `yaml:"liquidations"`
}

type Options struct {
	// Path overrides the embedded seed when non-empty.
	Path string
	// HashCost is the bcrypt cost for plaintext passwords; zero means bcrypt.DefaultCost.
	HashCost int
}

// Load reads the seed document and hashes plaintext passwords.
func Load(opts Options) (contracts.AppData, error) {
	raw := defaultSeed
	if p := strings.TrimSpace(opts.Path); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return contracts.AppData{}, fmt.Errorf("read seed %s: %w", p, err)
		}
		raw = b
	}
	return Parse(raw, opts.HashCost)
}

func Parse(raw []byte, hashCost int) (contracts.AppData, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return contracts.AppData{}, fmt.Errorf("parse seed: %w", err)
	}
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	seen := map[string]bool{}
	for i, u := range doc.Users {
		u.Username = user.NormalizeUsername(u.Username)
		if u.Username == "" {
			return contracts.AppData{}, fmt.Errorf("seed user %d: empty username", u.ID)
		}
		if seen[u.Username] {
			return contracts.AppData{}, fmt.Errorf("seed user %q: duplicate username", u.Username)
		}
		seen[u.Username] = true
		if !u.Role.Valid() {
			return contracts.AppData{}, fmt.Errorf("seed user %q: unknown role %q", u.Username, u.Role)
		}
		if u.Password != "" && !u.HasHashedSecret() {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), hashCost)
			if err != nil {
				return contracts.AppData{}, fmt.Errorf("hash seed password for %q: %w", u.Username, err)
			}
			u.Password = string(hash)
		}
		doc.Users[i] = u
	}
	for _, w := range doc.Wards {
		if strings.TrimSpace(w.Code) == "" {
			return contracts.AppData{}, fmt.Errorf("seed ward %d: empty code", w.ID)
		}
	}
	for i, c := range doc.Contracts {
		if c.Status == "" {
			doc.Contracts[i].Status = contracts.StatusProcessing
		}
	}
	return contracts.AppData{
		Users:        doc.Users,
		Wards:        doc.Wards,
		Contracts:    doc.Contracts,
		Liquidations: doc.Liquidations,
	}.Normalize(), nil
}
