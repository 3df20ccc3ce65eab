package vm

import (
	"io/ioutil"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type GenesisAccount struct {
	Address string `toml:"address"`
	Denom   string `toml:"denom"`
	Amount  string `toml:"amount"`
}

type HubConfiguration struct {
	Admin          string `toml:"admin"`
	Name           string `toml:"name"`
	Description    string `toml:"description"`
	Image          string `toml:"image"`
	ExternalLink   string `toml:"external_link"`
	NativeDenom    string `toml:"native_denom"`
	MarketplaceFee string `toml:"marketplace_fee"`
}

type Configuration struct {
	Log struct {
		Level int `toml:"level"`
	} `toml:"log"`
	Hub     HubConfiguration `toml:"hub"`
	Genesis struct {
		Timestamp int64             `toml:"timestamp"`
		Accounts  []*GenesisAccount `toml:"accounts"`
	} `toml:"genesis"`
	Metrics struct {
		Listen string `toml:"listen"`
	} `toml:"metrics"`
}

func Setup(path string) (*Configuration, error) {
	f, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfiguration(f)
}

func ParseConfiguration(data []byte) (*Configuration, error) {
	var conf Configuration
	err := toml.Unmarshal(data, &conf)
	if err != nil {
		return nil, err
	}

	hub := conf.Hub
	if err := ValidateAddress(hub.Admin); err != nil {
		return nil, errors.Wrap(err, "hub admin")
	}
	if hub.NativeDenom == "" {
		return nil, errors.New("hub native denom is empty")
	}
	if hub.MarketplaceFee != "" {
		fee, err := decimal.NewFromString(hub.MarketplaceFee)
		if err != nil {
			return nil, errors.Wrap(err, "hub marketplace fee")
		}
		if fee.IsNegative() || fee.GreaterThan(decimal.NewFromInt(1)) {
			return nil, errors.Errorf("hub marketplace fee out of range %s", fee)
		}
	}
	for _, ga := range conf.Genesis.Accounts {
		if err := ValidateAddress(ga.Address); err != nil {
			return nil, errors.Wrap(err, "genesis account")
		}
		amount, err := decimal.NewFromString(ga.Amount)
		if err != nil {
			return nil, errors.Wrapf(err, "genesis account %s", ga.Address)
		}
		err = ValidateCoins([]Coin{{Denom: ga.Denom, Amount: amount}})
		if err != nil {
			return nil, errors.Wrapf(err, "genesis account %s", ga.Address)
		}
	}
	return &conf, nil
}
