package whitelist_test

import (
	"errors"
	"testing"
	"time"

	"github.com/MixinNetwork/nfthub/modules/whitelist"
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/testutil"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instantiate(s *testutil.Suite, data *whitelist.Data) (string, error) {
	res, err := s.Runtime.Instantiate(s.Ctx, s.Admin, s.Codes.Whitelist, &nft.RegisterMsg{
		Admin: s.Admin,
		Data:  vm.Encode(data),
	}, "whitelist")
	if err != nil {
		return "", err
	}
	return res.Address, nil
}

func TestWhitelistWindow(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	s := testutil.NewSuite(t)

	_, err := instantiate(s, &whitelist.Data{StartTime: testutil.Genesis, EndTime: testutil.Genesis})
	assert.True(errors.Is(err, whitelist.ErrInvalidTime))

	wl, err := instantiate(s, &whitelist.Data{
		StartTime: testutil.Genesis.Add(time.Hour),
		EndTime:   testutil.Genesis.Add(3 * time.Hour),
	})
	require.Nil(err)

	var active bool
	require.Nil(s.Query(wl, whitelist.QueryMsg{IsActive: &struct{}{}}, &active))
	assert.False(active)
	s.Clock.Advance(time.Hour)
	require.Nil(s.Query(wl, whitelist.QueryMsg{IsActive: &struct{}{}}, &active))
	assert.True(active)

	end := &whitelist.ExecuteMsg{UpdateEndTime: &whitelist.UpdateTime{Time: testutil.Genesis.Add(2 * time.Hour)}}
	assert.True(errors.Is(s.Execute(testutil.NewAddress(), wl, end), nft.ErrUnauthorized))
	require.Nil(s.Execute(s.Admin, wl, end))
	s.Clock.Advance(time.Hour)
	require.Nil(s.Query(wl, whitelist.QueryMsg{IsActive: &struct{}{}}, &active))
	assert.False(active)

	var conf whitelist.Config
	require.Nil(s.Query(wl, whitelist.QueryMsg{Config: &struct{}{}}, &conf))
	assert.Equal(s.Admin, conf.Admin)
	assert.True(conf.EndTime.Equal(testutil.Genesis.Add(2 * time.Hour)))

	end.UpdateEndTime.Time = testutil.Genesis.Add(time.Hour)
	assert.True(errors.Is(s.Execute(s.Admin, wl, end), whitelist.ErrInvalidTime))
}

func TestWhitelistMembers(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	s := testutil.NewSuite(t)

	members := []string{
		"10000000-0000-4000-8000-000000000001",
		"10000000-0000-4000-8000-000000000002",
		"10000000-0000-4000-8000-000000000003",
	}
	wl, err := instantiate(s, &whitelist.Data{
		Members:   members[:2],
		StartTime: testutil.Genesis,
		EndTime:   testutil.Genesis.Add(time.Hour),
	})
	require.Nil(err)

	var found bool
	require.Nil(s.Query(wl, whitelist.QueryMsg{HasMember: &whitelist.HasMember{Address: members[1]}}, &found))
	assert.True(found)
	require.Nil(s.Query(wl, whitelist.QueryMsg{HasMember: &whitelist.HasMember{Address: members[2]}}, &found))
	assert.False(found)

	add := &whitelist.ExecuteMsg{AddMembers: &whitelist.Members{Members: []string{members[2], "not-an-address"}}}
	assert.True(errors.Is(s.Execute(s.Admin, wl, add), vm.ErrInvalidAddress))
	add.AddMembers.Members = members[2:]
	require.Nil(s.Execute(s.Admin, wl, add))
	require.Nil(s.Execute(s.Admin, wl, &whitelist.ExecuteMsg{RemoveMembers: &whitelist.Members{Members: members[:1]}}))

	var list []string
	require.Nil(s.Query(wl, whitelist.QueryMsg{Members: &whitelist.ListMembers{}}, &list))
	assert.Equal(members[1:], list)
	require.Nil(s.Query(wl, whitelist.QueryMsg{Members: &whitelist.ListMembers{StartAfter: members[1], Limit: 1}}, &list))
	assert.Equal(members[2:], list)
}
