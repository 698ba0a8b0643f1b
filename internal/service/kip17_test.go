package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKIP17_ZeroValueIsUnbound(t *testing.T) {
	var svc KIP17Service
	_, err := svc.Mint(context.Background(), testAlias, testTo, 1, "https://example.com/1.json")
	assert.ErrorIs(t, err, models.ErrNotInitialized)

	var nilSvc *KIP17Service
	_, err = nilSvc.GetTokenList(context.Background(), testAlias, nil)
	assert.ErrorIs(t, err, models.ErrNotInitialized)
}

func TestKIP17_MintNormalizesTokenID(t *testing.T) {
	mt := okTransport(submitted)
	svc, err := NewKIP17(testSession(mt))
	require.NoError(t, err)

	fut, err := svc.Mint(context.Background(), testAlias, testTo, "26", "https://example.com/26.json")
	require.NoError(t, err)
	_, err = fut.Await(context.Background())
	require.NoError(t, err)

	call := mt.LastCall(t)
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "/v1/contract/{contract-address-or-alias}/token", call.Path)
	assert.Equal(t, dto.Object{"to": testTo, "id": "0x1a", "uri": "https://example.com/26.json"}, bodyObject(t, call))
}

func TestKIP17_TokenPathUsesHexID(t *testing.T) {
	mt := okTransport(submitted)
	svc, err := NewKIP17(testSession(mt))
	require.NoError(t, err)
	ctx := context.Background()

	fut, err := svc.Transfer(ctx, testAlias, testOwner, testOwner, testTo, 255)
	require.NoError(t, err)
	_, err = fut.Await(ctx)
	require.NoError(t, err)

	call := mt.LastCall(t)
	assert.Equal(t, http.MethodPut, call.Method)
	assert.Equal(t, "0xff", call.PathParams["token-id"])
	assert.Equal(t, dto.Object{"sender": testOwner, "owner": testOwner, "to": testTo}, bodyObject(t, call))

	fut, err = svc.Burn(ctx, testAlias, testOwner, "0xFF")
	require.NoError(t, err)
	_, err = fut.Await(ctx)
	require.NoError(t, err)

	call = mt.LastCall(t)
	assert.Equal(t, http.MethodDelete, call.Method)
	assert.Equal(t, "0xff", call.PathParams["token-id"])
	assert.Equal(t, dto.Object{"from": testOwner}, bodyObject(t, call))
}

func TestKIP17_Validation(t *testing.T) {
	mt := okTransport(submitted)
	svc, err := NewKIP17(testSession(mt))
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name      string
		call      func() error
		wantField string
	}{
		{"token uri", func() error { _, err := svc.Mint(ctx, testAlias, testTo, 1, ""); return err }, "tokenUri"},
		{"token id", func() error { _, err := svc.GetToken(ctx, testAlias, "abc"); return err }, "tokenId"},
		{"sender", func() error { _, err := svc.Transfer(ctx, testAlias, "me", testOwner, testTo, 1); return err }, "sender"},
		{"burn holder", func() error { _, err := svc.Burn(ctx, testAlias, "", 1); return err }, "from"},
		{"deploy alias", func() error { _, err := svc.Deploy(ctx, "Art", "ART", "9art"); return err }, "alias"},
		{"mint takes no from", func() error {
			_, err := svc.Mint(ctx, testAlias, testTo, 1, "uri", WithFrom(testOwner))
			return err
		}, "options"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *models.ValidationError
			require.True(t, errors.As(tt.call(), &verr))
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
	assert.Empty(t, mt.Calls())
}

func TestKIP17_ListOptions(t *testing.T) {
	mt := okTransport(`{"items":[{"owner":"0x1111111111111111111111111111111111111111","tokenId":"0x1","tokenUri":"u"}],"cursor":"next"}`)
	svc, err := NewKIP17(testSession(mt))
	require.NoError(t, err)
	ctx := context.Background()

	fut, err := svc.GetTokenList(ctx, testAlias, dto.Object{"size": 10, "cursor": "abc"})
	require.NoError(t, err)
	res, err := fut.Await(ctx)
	require.NoError(t, err)
	require.Len(t, res.Data.Items, 1)
	assert.Equal(t, "0x1", res.Data.Items[0].TokenID)
	assert.Equal(t, "next", res.Data.Cursor)
	assert.Equal(t, map[string]string{"size": "10", "cursor": "abc"}, mt.LastCall(t).QueryParams)

	_, err = svc.GetContractList(ctx, dto.Object{"status": "deployed"})
	assert.ErrorIs(t, err, models.ErrInvalidQueryOptions, "kip17 listing takes no status filter")
}

func TestKIP17_DeployWithoutFeePayerOmitsOptions(t *testing.T) {
	mt := okTransport(submitted)
	svc, err := NewKIP17(testSession(mt))
	require.NoError(t, err)

	fut, err := svc.Deploy(context.Background(), "Art", "ART", "art-collection")
	require.NoError(t, err)
	_, err = fut.Await(context.Background())
	require.NoError(t, err)

	assert.Equal(t, dto.Object{"alias": "art-collection", "name": "Art", "symbol": "ART"}, bodyObject(t, mt.LastCall(t)))
}
