package nft

import (
	"sort"

	"github.com/MixinNetwork/nfthub/vm"
)

// CheckAdminPrivileges passes for the admin, the actor itself, its parent
// and its operators.
func CheckAdminPrivileges(sender, self, admin, parent string, operators []string) error {
	if sender == admin || sender == self || (parent != "" && sender == parent) {
		return nil
	}
	for _, op := range operators {
		if op == sender {
			return nil
		}
	}
	return ErrUnauthorized
}

func NormalizeOperators(addrs []string) ([]string, error) {
	set := make(map[string]bool)
	for _, a := range addrs {
		if err := vm.ValidateAddress(a); err != nil {
			return nil, err
		}
		set[a] = true
	}
	ops := make([]string, 0, len(set))
	for a := range set {
		ops = append(ops, a)
	}
	sort.Strings(ops)
	return ops, nil
}
