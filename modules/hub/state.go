package hub

import (
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/pkg/errors"
)

const (
	keyConfig        = "config"
	keyHubInfo       = "hub_info"
	prefixModules    = "modules:"
	prefixPendingMod = "pending:"
)

type Config struct {
	Admin string
}

func readConfig(s *vm.Storage) (*Config, error) {
	var c Config
	found, err := s.Load([]byte(keyConfig), &c)
	if err != nil {
		return nil, err
	} else if !found {
		return nil, errors.New("hub config not found")
	}
	return &c, nil
}

func readHubInfo(s *vm.Storage) (*HubInfo, error) {
	var info HubInfo
	_, err := s.Load([]byte(keyHubInfo), &info)
	return &info, err
}

func moduleKey(module nft.Module) []byte {
	return []byte(prefixModules + string(module))
}

func readModuleAddress(s *vm.Storage, module nft.Module) (string, error) {
	var addr string
	found, err := s.Load(moduleKey(module), &addr)
	if err != nil {
		return "", err
	} else if !found {
		return "", errors.Wrap(ErrModuleNotRegistered, string(module))
	}
	return addr, nil
}

func pendingKey(id uint64) []byte {
	return vm.Key(prefixPendingMod, vm.Uint64Key(id))
}
