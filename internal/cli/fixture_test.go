package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var cliNow = time.Date(2024, 3, 11, 18, 0, 0, 0, time.UTC)

const fixtureJSON = `{
  "dealerships": [
    {"id": "dlr-1", "company": "DriveMax Motors", "uniqueName": "drivemax", "address": "MG Road"}
  ],
  "customers": [
    {"id": "cust-1", "dealershipId": "dlr-1", "name": "Priya", "car": {"model": "Creta", "year": 2021, "registrationNumber": "KA01AB1234"}},
    {"id": "cust-2", "dealershipId": "dlr-1", "name": "Arjun", "car": {"model": "City", "year": 2019}}
  ],
  "visits": [
    {"id": "v-shock", "customerId": "cust-1", "dealershipId": "dlr-1", "visitDate": "2024-03-01T09:00:00Z",
     "serviceDelayInDays": 0, "price": 7000, "feedback": {"feedbackProvided": true, "stars": 5},
     "repeatIssues": 0, "wasIssueResolved": true},
    {"id": "v-worst", "customerId": "cust-1", "dealershipId": "dlr-1", "visitDate": "2024-03-11T09:00:00Z",
     "serviceDelayInDays": 30, "price": 50000, "feedback": {"feedbackProvided": false},
     "repeatIssues": 5, "wasIssueResolved": false},
    {"id": "v-clean", "customerId": "cust-2", "dealershipId": "dlr-1", "visitDate": "2024-03-11T09:00:00Z",
     "serviceDelayInDays": 0, "price": 5000, "feedback": {"feedbackProvided": true, "stars": 5},
     "repeatIssues": 0, "wasIssueResolved": true}
  ]
}`

// runCLI executes one riskctl invocation against dbPath and returns its stdout.
func runCLI(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()

	c := &CLI{v: viper.New(), logger: zap.NewNop(), now: func() time.Time { return cliNow }}
	root := c.rootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--db-path", dbPath, "--color=false"}, args...))

	err := root.Execute()
	return out.String(), err
}

// seededDB returns a sqlite path that already holds the fixture.
func seededDB(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	fixture := filepath.Join(dir, "fixture.json")
	require.NoError(t, os.WriteFile(fixture, []byte(fixtureJSON), 0o600))

	dbPath := filepath.Join(dir, "data", "risk.db")
	_, err := runCLI(t, dbPath, "import", fixture)
	require.NoError(t, err)
	return dbPath
}
