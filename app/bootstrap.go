package app

import (
	"context"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/nfthub/modules/fee"
	"github.com/MixinNetwork/nfthub/modules/hub"
	"github.com/MixinNetwork/nfthub/modules/marketplace"
	"github.com/MixinNetwork/nfthub/modules/mint"
	"github.com/MixinNetwork/nfthub/modules/permission"
	"github.com/MixinNetwork/nfthub/modules/permission/link"
	"github.com/MixinNetwork/nfthub/modules/token"
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const deploymentPropertyKey = "APP:HUB:DEPLOYMENT"

type Deployment struct {
	Admin       string
	Hub         string
	Mint        string
	Permission  string
	Link        string
	Fee         string
	Marketplace string
}

func ReadDeployment(store vm.Store) (*Deployment, error) {
	val, err := store.ReadProperty([]byte(deploymentPropertyKey))
	if err != nil || val == nil {
		return nil, err
	}
	var d Deployment
	err = vm.Decode(val, &d)
	return &d, err
}

// Bootstrap deploys a hub with all its modules on first start, funds the
// genesis accounts and records the deployment. Later starts only load it.
func Bootstrap(ctx context.Context, store vm.Store, rt *vm.Runtime, codes *Codes, conf *vm.Configuration) (*Deployment, error) {
	d, err := ReadDeployment(store)
	if err != nil || d != nil {
		return d, err
	}

	for _, ga := range conf.Genesis.Accounts {
		amount, err := decimal.NewFromString(ga.Amount)
		if err != nil {
			return nil, err
		}
		err = rt.Deposit(ctx, ga.Address, vm.Coin{Denom: ga.Denom, Amount: amount})
		if err != nil {
			return nil, err
		}
	}

	d, err = Deploy(ctx, rt, codes, &conf.Hub)
	if err != nil {
		return nil, err
	}
	err = store.WriteProperty([]byte(deploymentPropertyKey), vm.Encode(d))
	if err != nil {
		return nil, err
	}
	logger.Printf("Bootstrap(%s) => hub %s mint %s marketplace %s\n", d.Admin, d.Hub, d.Mint, d.Marketplace)
	return d, nil
}

// Deploy instantiates a hub for the admin of hc and initializes the fee,
// mint, permission and marketplace modules with the link permission
// enabled for minting. The marketplace fee goes to the hub admin.
func Deploy(ctx context.Context, rt *vm.Runtime, codes *Codes, hc *vm.HubConfiguration) (*Deployment, error) {
	admin := hc.Admin
	info := hub.HubInfo{
		Name:         hc.Name,
		Description:  hc.Description,
		Image:        hc.Image,
		ExternalLink: hc.ExternalLink,
	}
	res, err := rt.Instantiate(ctx, admin, codes.Hub, &hub.InstantiateMsg{HubInfo: info}, "hub")
	if err != nil {
		return nil, errors.Wrap(err, "hub")
	}
	d := &Deployment{Admin: admin, Hub: res.Address}

	steps := []hub.ExecuteMsg{
		{InitFeeModule: &hub.InitModule{CodeId: codes.Fee}},
		{InitMintModule: &hub.InitModule{CodeId: codes.Mint}},
		{InitPermissionModule: &hub.InitModule{CodeId: codes.Permission}},
	}
	for _, m := range steps {
		_, err = rt.Execute(ctx, admin, d.Hub, &m)
		if err != nil {
			return nil, err
		}
	}
	for module, addr := range map[nft.Module]*string{
		nft.ModuleFee:        &d.Fee,
		nft.ModuleMint:       &d.Mint,
		nft.ModulePermission: &d.Permission,
	} {
		err = rt.Query(ctx, d.Hub, hub.QueryModuleAddress(module), addr)
		if err != nil {
			return nil, err
		}
	}

	if hc.MarketplaceFee != "" {
		rate, err := decimal.NewFromString(hc.MarketplaceFee)
		if err != nil {
			return nil, err
		}
		if rate.IsPositive() {
			sf := &fee.ExecuteMsg{SetFee: &fee.SetFee{
				FeeType: fee.FeeTypePercentage,
				Module:  marketplace.FeeModule,
				FeeName: marketplace.HubAdminFee,
				Value:   rate,
			}}
			_, err = rt.Execute(ctx, admin, d.Fee, sf)
			if err != nil {
				return nil, err
			}
		}
	}

	rp := &permission.ExecuteMsg{RegisterPermission: &permission.RegisterPermission{
		CodeId:     codes.Link,
		Permission: link.Permission,
	}}
	_, err = rt.Execute(ctx, admin, d.Permission, rp)
	if err != nil {
		return nil, err
	}
	err = rt.Query(ctx, d.Permission, permission.QueryMsg{PermissionAddress: &permission.PermissionQuery{Permission: link.Permission}}, &d.Link)
	if err != nil {
		return nil, err
	}
	mp := &permission.ExecuteMsg{UpdateModulePermissions: &permission.UpdateModulePermissions{
		Module:      nft.ModuleMint,
		Permissions: []string{link.Permission},
	}}
	_, err = rt.Execute(ctx, admin, d.Permission, mp)
	if err != nil {
		return nil, err
	}

	im := &hub.ExecuteMsg{InitMarketplaceModule: &hub.InitMarketplaceModule{
		CodeId:      codes.Marketplace,
		NativeDenom: hc.NativeDenom,
	}}
	_, err = rt.Execute(ctx, admin, d.Hub, im)
	if err != nil {
		return nil, err
	}
	err = rt.Query(ctx, d.Hub, hub.QueryModuleAddress(nft.ModuleMarketplace), &d.Marketplace)
	return d, err
}

// EnableMarketplace makes the marketplace an operator of a collection,
// which it needs to hold listing locks and settle sales.
func (d *Deployment) EnableMarketplace(ctx context.Context, rt *vm.Runtime, collectionId uint32) error {
	var addr string
	err := rt.Query(ctx, d.Mint, mint.QueryMsg{CollectionAddress: &mint.CollectionRef{CollectionId: collectionId}}, &addr)
	if err != nil {
		return err
	}
	var ops []string
	err = rt.Query(ctx, addr, token.QueryMsg{Operators: &struct{}{}}, &ops)
	if err != nil {
		return err
	}
	for _, op := range ops {
		if op == d.Marketplace {
			return nil
		}
	}
	um := &token.ExecuteMsg{UpdateOperators: &token.UpdateOperators{Addrs: append(ops, d.Marketplace)}}
	_, err = rt.Execute(ctx, d.Admin, addr, um)
	return err
}
