package personal

import (
	"bytes"
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers/providertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const addr = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"

func newTestModule(t *testing.T) (Module, *providers.MockTransport) {
	t.Helper()
	tr := providers.NewMockTransport(gomock.NewController(t))
	m, err := NewModule(tr)
	require.NoError(t, err)
	return m, tr
}

func TestListAccountsAndNewAccount(t *testing.T) {
	m, tr := newTestModule(t)
	providertest.Expect(tr.EXPECT(), "personal_listAccounts", `["`+addr+`"]`)
	providertest.Expect(tr.EXPECT(), "personal_newAccount", `"0x0000000000000000000000000000000000000001"`)

	accounts, err := m.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{addr}, accounts)

	created, err := m.NewAccount(context.Background(), "secret")
	require.NoError(t, err)
	assert.Equal(t, "0x0000000000000000000000000000000000000001", created)
}

func TestUnlockAccountSendsSeconds(t *testing.T) {
	m, tr := newTestModule(t)
	tr.EXPECT().Send(gomock.Any(), providertest.Method("personal_unlockAccount")).
		DoAndReturn(func(ctx context.Context, req *providers.Request) (*providers.Response, error) {
			params, err := providertest.Params(req)
			require.NoError(t, err)
			require.Len(t, params, 3)
			assert.JSONEq(t, `"secret"`, string(params[1]))
			assert.JSONEq(t, `300`, string(params[2]))
			return providertest.Result(`true`)(ctx, req)
		})

	ok, err := m.UnlockAccount(context.Background(), addr, "secret", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = m.UnlockAccount(context.Background(), addr, "secret", -time.Second)
	assert.Error(t, err)
	_, err = m.UnlockAccount(context.Background(), "nope", "secret", 0)
	assert.Error(t, err)
}

func TestLockAccount(t *testing.T) {
	m, tr := newTestModule(t)
	providertest.Expect(tr.EXPECT(), "personal_lockAccount", `true`)

	ok, err := m.LockAccount(context.Background(), addr)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSignAndRecover(t *testing.T) {
	m, tr := newTestModule(t)
	sig := bytes.Repeat([]byte{0xab}, 65)
	providertest.Expect(tr.EXPECT(), "personal_sign", `"0x`+hex.EncodeToString(sig)+`"`)
	providertest.Expect(tr.EXPECT(), "personal_ecRecover", `"`+addr+`"`)

	got, err := m.Sign(context.Background(), []byte("hello"), addr, "secret")
	require.NoError(t, err)
	assert.Equal(t, sig, got)

	signer, err := m.EcRecover(context.Background(), []byte("hello"), got)
	require.NoError(t, err)
	assert.Equal(t, addr, signer)

	_, err = m.EcRecover(context.Background(), []byte("hello"), []byte{1})
	assert.Error(t, err)
}
