package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	adapthttp "njaboot/internal/adapter/http"
	"njaboot/internal/adapter/memory"
	"njaboot/internal/app"
	"njaboot/internal/config"
	"njaboot/internal/format"
	"njaboot/internal/logger"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
products:
  - {id: riz-25kg, name: Riz parfumé 25 kg, unit: sac, price: "12500", stock: 40, minStock: 10}
  - {id: huile-5l, name: Huile d'arachide 5 L, unit: bidon, price: "6500", stock: 8, minStock: 6}
  - {id: sucre-1kg, name: Sucre en poudre, unit: kg, price: "800", stock: 0, minStock: 20}
`

func startAPI(t *testing.T) string {
	t.Helper()
	db := memory.New()
	authSvc := app.NewAuthService(db, db.NewSessionRepo(), time.Hour)
	_, err := authSvc.BootstrapManager(context.Background(), "boss@njaboot.sn", "gerant123")
	require.NoError(t, err)

	ts := httptest.NewServer(adapthttp.New(authSvc, nil).Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func testConfig(t *testing.T, apiURL, driver string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0o600))
	return &config.Config{Client: config.ClientConfig{
		APIURL:        apiURL,
		HTTPTimeout:   5 * time.Second,
		StorageDriver: driver,
		SQLitePath:    filepath.Join(dir, "state.db"),
		CatalogPath:   catalogPath,
	}}
}

func useEnv(t *testing.T, cfg *config.Config) {
	t.Helper()
	e, err := newEnv(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	env = e
	t.Cleanup(func() {
		_ = e.Close()
		env = nil
	})
}

// run invokes fn like cobra would and returns what it printed.
func run(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetContext(context.Background())
	err := fn(cmd, args)
	return out.String(), err
}

func mustRun(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) string {
	t.Helper()
	out, err := run(t, fn, args...)
	require.NoError(t, err)
	return out
}

func TestCustomerJourney(t *testing.T) {
	useEnv(t, testConfig(t, startAPI(t), config.StorageMemory))

	assert.Contains(t, mustRun(t, runWhoami), "Non connecté")

	regPassword, regFirstName, regLastName, regPhone = "secret123", "Awa", "Ndiaye", "+221770000000"
	t.Cleanup(func() { regPassword, regFirstName, regLastName, regPhone = "", "", "", "" })
	assert.Contains(t, mustRun(t, runRegister, "awa@njaboot.sn"), "Awa Ndiaye")

	who := mustRun(t, runWhoami)
	assert.Contains(t, who, "awa@njaboot.sn")
	assert.Contains(t, who, "Bronze")

	mustRun(t, runCartAdd, "riz-25kg")
	mustRun(t, runCartAdd, "riz-25kg")
	mustRun(t, runCartAdd, "huile-5l", "3")
	assert.Equal(t, 2, env.cart.Quantity("riz-25kg"))

	show := mustRun(t, runCartShow)
	assert.Contains(t, show, format.Currency(decimal.NewFromInt(44500)))
	assert.Contains(t, show, "2 produits, 5 articles")
	assert.Contains(t, show, "Points fidélité gagnés : 445")

	mustRun(t, runCartSet, "riz-25kg", "0")
	assert.Equal(t, 0, env.cart.Quantity("riz-25kg"))
	mustRun(t, runCartRemove, "huile-5l")
	assert.Contains(t, mustRun(t, runCartShow), "vide")

	products := mustRun(t, runProducts)
	assert.Contains(t, products, "riz-25kg")
	assert.NotContains(t, products, "Rupture de stock", "customers do not see stock")

	mustRun(t, runLogout)
	assert.Contains(t, mustRun(t, runWhoami), "Non connecté")
}

func TestManagerSeesStock(t *testing.T) {
	useEnv(t, testConfig(t, startAPI(t), config.StorageMemory))

	passwordFlag = "gerant123"
	t.Cleanup(func() { passwordFlag = "" })
	mustRun(t, runLogin, "boss@njaboot.sn")
	require.True(t, env.session.IsManager())

	out := mustRun(t, runProducts)
	assert.Contains(t, out, "Rupture de stock")
	assert.Contains(t, out, "Stock moyen")
	assert.Contains(t, out, "En stock")
}

func TestFailedLoginKeepsSession(t *testing.T) {
	useEnv(t, testConfig(t, startAPI(t), config.StorageMemory))

	passwordFlag = "gerant123"
	t.Cleanup(func() { passwordFlag = "" })
	mustRun(t, runLogin, "boss@njaboot.sn")

	passwordFlag = "wrong"
	_, err := run(t, runLogin, "boss@njaboot.sn")
	require.Error(t, err)
	assert.ErrorIs(t, err, app.ErrLoginFailed)
	assert.Equal(t, "Email ou mot de passe incorrect", err.Error())
	assert.True(t, env.session.IsManager())
}

func TestSQLiteStatePersistsAcrossRuns(t *testing.T) {
	cfg := testConfig(t, startAPI(t), config.StorageSQLite)

	first, err := newEnv(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	env = first
	mustRun(t, runCartAdd, "sucre-1kg", "4")
	passwordFlag = "gerant123"
	mustRun(t, runLogin, "boss@njaboot.sn")
	passwordFlag = ""
	require.NoError(t, first.Close())

	useEnv(t, cfg)
	assert.Equal(t, 4, env.cart.Quantity("sucre-1kg"))
	assert.True(t, env.session.IsAuthenticated())
}

func TestCartAddRejectsBadQuantity(t *testing.T) {
	useEnv(t, testConfig(t, startAPI(t), config.StorageMemory))

	for _, q := range []string{"0", "-2", "deux"} {
		_, err := run(t, runCartAdd, "riz-25kg", q)
		assert.Error(t, err, q)
	}
	assert.Equal(t, 0, env.cart.Len())
}

func TestLoyaltyCommand(t *testing.T) {
	useEnv(t, testConfig(t, startAPI(t), config.StorageMemory))

	out := mustRun(t, runLoyalty, "2500")
	assert.Contains(t, out, "Argent")
	assert.Contains(t, out, "encore 2500 points pour Or")

	assert.Contains(t, mustRun(t, runLoyalty, "9000"), "Niveau maximum")

	all := mustRun(t, runLoyalty)
	for _, level := range []string{"Bronze", "Argent", "Or"} {
		assert.Contains(t, all, level)
	}

	_, err := run(t, runLoyalty, "-1")
	assert.Error(t, err)
}

func TestStorageFlagOverridesEnvironment(t *testing.T) {
	require.Nil(t, env)
	t.Setenv("NJABOOT_STORAGE", "redis")
	t.Setenv("NJABOOT_REDIS_URL", "")
	t.Setenv("NJABOOT_API_URL", startAPI(t))
	t.Cleanup(func() { storageFlag = "" })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--storage", "memory", "whoami"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Non connecté")
	assert.Nil(t, env)
}

func TestResolvePassword(t *testing.T) {
	pw, err := resolvePassword(strings.NewReader("ignored\n"), "flag")
	require.NoError(t, err)
	assert.Equal(t, "flag", pw)

	pw, err = resolvePassword(strings.NewReader("secret123\r\nrest"), "")
	require.NoError(t, err)
	assert.Equal(t, "secret123", pw)

	_, err = resolvePassword(strings.NewReader(""), "")
	assert.Error(t, err)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat("-", 20)+"]", progressBar(0))
	assert.Equal(t, "["+strings.Repeat("#", 10)+strings.Repeat("-", 10)+"]", progressBar(50))
	assert.Equal(t, "["+strings.Repeat("#", 20)+"]", progressBar(100))
}
