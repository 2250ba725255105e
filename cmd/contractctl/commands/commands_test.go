package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func setupStore(t *testing.T) {
	t.Helper()
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("STORE_SQLITE_PATH", filepath.Join(t.TempDir(), "ctl.db"))
	t.Setenv("CONTRACT_TIMEZONE", "UTC")
	t.Setenv("SEED_HASH_COST", "4")
}

func TestNumberExplainRunsOffline(t *testing.T) {
	out, err := run(t, "number", "explain", "07/25LL.HĐ.VPĐKLK")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	for _, want := range []string{"Sequence:", "7", "LL", "07/25LL.TLHĐ.VPĐKLK", "07/25LL.TLHHĐ.VPĐKLK"} {
		if !strings.Contains(out, want) {
			t.Fatalf("explain output missing %q:\n%s", want, out)
		}
	}
	if _, err := run(t, "number", "explain", "garbage"); err == nil {
		t.Fatalf("expected an error for a malformed number")
	}
}

func TestCommandsRequireLogin(t *testing.T) {
	setupStore(t)
	if _, err := run(t, "contracts", "list"); err == nil {
		t.Fatalf("expected an error before login")
	}
}

func TestLoginCreateAndList(t *testing.T) {
	setupStore(t)
	if out, err := run(t, "login", "admin", "-p", "admin123"); err != nil {
		t.Fatalf("login: %v (%s)", err, out)
	}
	out, err := run(t, "--json", "contracts", "create", "--customer", "Nguyễn Văn A", "--map-sheet", "3", "--plot", "41", "--ward", "1")
	if err != nil {
		t.Fatalf("create: %v (%s)", err, out)
	}
	var created contracts.Contract
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("decode create: %v (%s)", err, out)
	}
	if !strings.HasPrefix(created.ContractNumber, "01/") || !strings.HasSuffix(created.ContractNumber, "TL.HĐ.VPĐKLK") {
		t.Fatalf("number: %q", created.ContractNumber)
	}

	out, err = run(t, "contracts", "list", "-q", "nguyễn")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, created.ContractNumber) {
		t.Fatalf("list output missing %q:\n%s", created.ContractNumber, out)
	}

	if _, err := run(t, "contracts", "cancel", "1", "--reason", "short"); err == nil {
		t.Fatalf("expected an error for an unknown id or short reason")
	}
	if _, err := run(t, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := run(t, "whoami"); err == nil {
		t.Fatalf("expected whoami to fail after logout")
	}
}

func TestExitCodes(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domainagg.Invalid("contracts.create", "missing or invalid fields: wardId", "wardId"), 2},
		{domainagg.NewError(domainagg.CodeNotFound, "contracts.get", "contract 4 not found", nil), 3},
		{domainagg.NewError(domainagg.CodeInvalidTransition, "Contracts.AddLiquidation", "contract is Hoàn thành", nil), 4},
		{domainagg.NewError(domainagg.CodeForbidden, "contracts.cancel", "admin only", nil), 5},
		{domainagg.NewError(domainagg.CodePersistence, "Contracts.AddContract", "disk full", nil), 6},
		{errors.New("unknown flag: --nope"), 1},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Fatalf("exitCode(%v): want=%d got=%d", tc.err, tc.want, got)
		}
	}
	msg := describe(cases[0].err)
	if msg != "missing or invalid fields: wardId [validation] (wardId)" {
		t.Fatalf("describe: got=%q", msg)
	}
}

func TestCreateRequiresPlotFlagButAcceptsZero(t *testing.T) {
	setupStore(t)
	if out, err := run(t, "login", "nhanvien", "-p", "nhanvien123"); err != nil {
		t.Fatalf("login: %v (%s)", err, out)
	}
	if _, err := run(t, "contracts", "create", "--customer", "Lê C", "--map-sheet", "3", "--ward", "1"); err == nil || !strings.Contains(err.Error(), "plot") {
		t.Fatalf("missing --plot: expected a required-flag error, got %v", err)
	}
	out, err := run(t, "--json", "contracts", "create", "--customer", "Lê C", "--map-sheet", "0", "--plot", "0", "--ward", "1")
	if err != nil {
		t.Fatalf("create with zero plot: %v (%s)", err, out)
	}
	var c contracts.Contract
	if err := json.Unmarshal([]byte(out), &c); err != nil || c.PlotNumber != 0 {
		t.Fatalf("decode: %v %+v", err, c)
	}
}
