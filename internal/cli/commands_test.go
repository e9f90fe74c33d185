package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/godilite/dealer-risk/internal/risk"
	"github.com/godilite/dealer-risk/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "risk.db")

	out, err := runCLI(t, dbPath, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 1 migration(s)")

	out, err = runCLI(t, dbPath, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 0 migration(s)")
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	fixture := filepath.Join(dir, "fixture.json")
	require.NoError(t, os.WriteFile(fixture, []byte(fixtureJSON), 0o600))

	out, err := runCLI(t, filepath.Join(dir, "risk.db"), "import", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 dealership(s), 2 customer(s), 3 visit(s)")

	t.Run("missing file", func(t *testing.T) {
		_, err := runCLI(t, filepath.Join(dir, "risk.db"), "import", filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{"visits": [`), 0o600))

		_, err := runCLI(t, filepath.Join(dir, "risk.db"), "import", bad)
		assert.ErrorContains(t, err, "parse")
	})

	t.Run("invalid visit leaves the store untouched", func(t *testing.T) {
		invalid := filepath.Join(dir, "invalid.json")
		require.NoError(t, os.WriteFile(invalid, []byte(`{
  "dealerships": [{"id": "dlr-9", "company": "Later Motors", "uniqueName": "later"}],
  "visits": [{"id": "v-9", "customerId": "cust-1", "dealershipId": "dlr-9",
    "visitDate": "2024-03-05T10:00:00Z", "price": 5000, "feedback": {"feedbackProvided": true}}]
}`), 0o600))

		_, err := runCLI(t, filepath.Join(dir, "risk.db"), "import", invalid)
		require.ErrorIs(t, err, risk.ErrInvalidVisit)

		_, err = runCLI(t, filepath.Join(dir, "risk.db"), "dealership", "dlr-9")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestVisitCommand(t *testing.T) {
	dbPath := seededDB(t)

	t.Run("text", func(t *testing.T) {
		out, err := runCLI(t, dbPath, "visit", "v-worst")
		require.NoError(t, err)
		assert.Contains(t, out, "v-worst")
		assert.Contains(t, out, "90")
		assert.Contains(t, out, "CRITICAL")
		assert.Contains(t, out, "Suggestions:")
		assert.NotContains(t, out, "Visit Risk Score:")
	})

	t.Run("explain", func(t *testing.T) {
		out, err := runCLI(t, dbPath, "visit", "v-worst", "--explain")
		require.NoError(t, err)
		assert.Contains(t, out, "Visit Risk Score: 90/100 (CRITICAL)")
		assert.Contains(t, out, "Priya")
	})

	t.Run("json", func(t *testing.T) {
		out, err := runCLI(t, dbPath, "visit", "v-shock", "--output", "json")
		require.NoError(t, err)

		var sv risk.ScoredVisit
		require.NoError(t, json.Unmarshal([]byte(out), &sv))
		assert.Equal(t, "v-shock", sv.Visit.ID)
		assert.Equal(t, 10.0, sv.Assessment.Score)
		assert.Equal(t, risk.LevelSafe, sv.Assessment.Level)
	})

	t.Run("unknown visit", func(t *testing.T) {
		_, err := runCLI(t, dbPath, "visit", "missing")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestCustomerCommand(t *testing.T) {
	dbPath := seededDB(t)

	out, err := runCLI(t, dbPath, "customer", "cust-1", "--output", "json", "--as-of", "2024-03-11")
	require.NoError(t, err)

	var cr risk.CustomerRisk
	require.NoError(t, json.Unmarshal([]byte(out), &cr))
	assert.Equal(t, "Priya", cr.Customer.Name)
	assert.Equal(t, 2, cr.VisitCount)
	assert.Equal(t, 52.0, cr.Assessment.Score)
	assert.Equal(t, risk.LevelAtRisk, cr.Assessment.Level)

	t.Run("text", func(t *testing.T) {
		out, err := runCLI(t, dbPath, "customer", "cust-1")
		require.NoError(t, err)
		assert.Contains(t, out, "Creta")
		assert.Contains(t, out, "AT RISK")
	})

	t.Run("bad as-of", func(t *testing.T) {
		_, err := runCLI(t, dbPath, "customer", "cust-1", "--as-of", "11/03/2024")
		assert.ErrorContains(t, err, "invalid --as-of")
	})
}

func TestDealershipCommand(t *testing.T) {
	dbPath := seededDB(t)

	t.Run("json", func(t *testing.T) {
		out, err := runCLI(t, dbPath, "dealership", "dlr-1", "--output", "json")
		require.NoError(t, err)

		var r risk.Rollup
		require.NoError(t, json.Unmarshal([]byte(out), &r))
		assert.Equal(t, 26.0, r.Assessment.Score)
		assert.Equal(t, risk.LevelSafe, r.Assessment.Level)
		require.Len(t, r.Customers, 2)
		assert.Equal(t, "cust-1", r.Customers[0].Customer.ID)
		require.Len(t, r.WorstVisits, 1)
		assert.Equal(t, "v-worst", r.WorstVisits[0].Visit.ID)
	})

	t.Run("text with explanation", func(t *testing.T) {
		out, err := runCLI(t, dbPath, "dealership", "dlr-1", "--explain", "--limit", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "DriveMax Motors (dlr-1): 26/100 SAFE")
		assert.Contains(t, out, "Worst visits:")
		assert.Contains(t, out, "Dealership: DriveMax Motors, MG Road")
	})

	t.Run("unsupported output", func(t *testing.T) {
		_, err := runCLI(t, dbPath, "dealership", "dlr-1", "--output", "xml")
		assert.ErrorContains(t, err, "unsupported output")
	})
}

func TestEnvOverridesFlagDefaults(t *testing.T) {
	dbPath := seededDB(t)
	t.Setenv("RISKCTL_OUTPUT", "json")

	out, err := runCLI(t, dbPath, "visit", "v-clean")
	require.NoError(t, err)

	var sv risk.ScoredVisit
	require.NoError(t, json.Unmarshal([]byte(out), &sv))
	assert.Equal(t, 0.0, sv.Assessment.Score)
}
