package fee

import (
	"strings"

	"github.com/MixinNetwork/nfthub/vm"
	"github.com/pkg/errors"
)

const (
	keyConfig = "config"
	keyHub    = "hub"
)

type Config struct {
	Admin string
}

func (t FeeType) validate() error {
	if t != FeeTypePercentage && t != FeeTypeFixed {
		return errors.Wrap(ErrInvalidFeeType, string(t))
	}
	return nil
}

func validateName(name string) error {
	if name == "" || strings.Contains(name, ":") {
		return errors.Wrap(ErrInvalidName, name)
	}
	return nil
}

func modulePrefix(t FeeType, module string) []byte {
	return []byte(string(t) + ":" + module + ":")
}

func feeKey(t FeeType, module, name string) []byte {
	return append(modulePrefix(t, module), name...)
}

func readConfig(s *vm.Storage) (*Config, string, error) {
	var c Config
	var hub string
	_, err := s.Load([]byte(keyConfig), &c)
	if err != nil {
		return nil, "", err
	}
	_, err = s.Load([]byte(keyHub), &hub)
	return &c, hub, err
}

func readPayment(s *vm.Storage, t FeeType, module, name string) (*Payment, error) {
	var p Payment
	found, err := s.Load(feeKey(t, module, name), &p)
	if err != nil {
		return nil, err
	} else if !found {
		return nil, errors.Wrapf(ErrFeeNotFound, "%s %s %s", t, module, name)
	}
	return &p, nil
}

type namedPayment struct {
	Name string
	Payment
}

func listPayments(s *vm.Storage, t FeeType, module string) ([]*namedPayment, error) {
	var payments []*namedPayment
	err := s.Range(modulePrefix(t, module), nil, 0, func(key, val []byte) error {
		np := &namedPayment{Name: string(key)}
		err := vm.Decode(val, &np.Payment)
		payments = append(payments, np)
		return err
	})
	return payments, err
}
