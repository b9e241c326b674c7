// services/store-service/internal/domain/account/account.domain.go
package account

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToUpper(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("unknown gender %q: %w", s, domainErr.ErrInvalidArgument)
	}
	return g, nil
}

type Country string

const (
	CountryRussia     Country = "RUSSIA"
	CountryKazakhstan Country = "KAZAKHSTAN"
	CountryBelarus    Country = "BELARUS"
	CountryUkraine    Country = "UKRAINE"
	CountryArmenia    Country = "ARMENIA"
	CountryGeorgia    Country = "GEORGIA"
)

func (c Country) Valid() bool {
	switch c {
	case CountryRussia, CountryKazakhstan, CountryBelarus, CountryUkraine, CountryArmenia, CountryGeorgia:
		return true
	}
	return false
}

func ParseCountry(s string) (Country, error) {
	c := Country(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown country %q: %w", s, domainErr.ErrInvalidArgument)
	}
	return c, nil
}

// Account is a personal customer account.
// Password is an opaque credential string; it never leaves the process in JSON or logs.
type Account struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Password    string    `json:"-"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	Birthday    time.Time `json:"birthday"`
	Country     Country   `json:"country"`
	Gender      Gender    `json:"gender"`
	City        string    `json:"city"`
	Address     string    `json:"address"`
	PhoneNumber string    `json:"phone_number"`
	Image       string    `json:"image"`
}

func (a Account) String() string {
	return fmt.Sprintf("Account{ID:%d Email:%s Name:%s Surname:%s Password:[REDACTED]}", a.ID, a.Email, a.Name, a.Surname)
}

func (a Account) Validate() error {
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return fmt.Errorf("invalid email %q: %w", a.Email, domainErr.ErrInvalidArgument)
	}
	if a.Password == "" {
		return fmt.Errorf("password is required: %w", domainErr.ErrInvalidArgument)
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("name is required: %w", domainErr.ErrInvalidArgument)
	}
	if a.Country != "" && !a.Country.Valid() {
		return fmt.Errorf("unknown country %q: %w", a.Country, domainErr.ErrInvalidArgument)
	}
	if a.Gender != "" && !a.Gender.Valid() {
		return fmt.Errorf("unknown gender %q: %w", a.Gender, domainErr.ErrInvalidArgument)
	}
	return nil
}

// Filter selects accounts by demographic. Empty fields mean "any".
type Filter struct {
	Gender  Gender
	Country Country
}

func (f Filter) Validate() error {
	if f.Gender != "" && !f.Gender.Valid() {
		return fmt.Errorf("unknown gender %q: %w", f.Gender, domainErr.ErrInvalidArgument)
	}
	if f.Country != "" && !f.Country.Valid() {
		return fmt.Errorf("unknown country %q: %w", f.Country, domainErr.ErrInvalidArgument)
	}
	return nil
}

func (f Filter) Matches(a Account) bool {
	if f.Gender != "" && f.Gender != a.Gender {
		return false
	}
	if f.Country != "" && f.Country != a.Country {
		return false
	}
	return true
}
