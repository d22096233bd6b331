package service

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lshigami/cctfd/internal/model"
	"github.com/lshigami/cctfd/internal/session"
)

func createCommunity(t *testing.T, f *fixture, name string) *model.Challenge {
	t.Helper()
	chal, err := f.community.Create(session.Context{TeamID: ownerTeam, IP: "10.0.0.7"}, communityForm(name))
	if err != nil {
		t.Fatalf("Create(%q): %v", name, err)
	}
	return chal
}

func TestCommunityCreate(t *testing.T) {
	f := newFixture(t)
	form := communityForm("Foo")
	form.Hidden = "on"

	chal, err := f.community.Create(session.Context{TeamID: ownerTeam}, form)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stored, err := f.deps.Challenges.FindByID(chal.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Hidden {
		t.Fatalf("Hidden = true, want false")
	}
	if stored.Type != model.ChallengeTypeCommunity || stored.Value != 100 || stored.Category != "Web" {
		t.Fatalf("stored = %+v, want community Web challenge worth 100", stored)
	}

	owner, err := f.deps.Community.FindOwner(chal.ID)
	if err != nil {
		t.Fatalf("FindOwner: %v", err)
	}
	if owner != ownerTeam {
		t.Fatalf("owner = %d, want %d", owner, ownerTeam)
	}

	chalKeys, err := f.deps.Keys.FindByChallenge(chal.ID)
	if err != nil {
		t.Fatalf("FindByChallenge: %v", err)
	}
	if len(chalKeys) != 1 || chalKeys[0].Flag != "flag{x}" || chalKeys[0].Type != "static" {
		t.Fatalf("keys = %+v, want one static flag{x}", chalKeys)
	}
	if n := f.count(t, &model.Challenge{}, "1 = 1"); n != 1 {
		t.Fatalf("challenges = %d, want 1", n)
	}
	if n := f.count(t, &model.CommunityChallenge{}, "1 = 1"); n != 1 {
		t.Fatalf("community rows = %d, want 1", n)
	}
}

func TestCommunityCreateMaxAttempts(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"3", 3},
		{"", 0},
		{"abc", 0},
		{"-2", 0},
	}
	for _, tt := range tests {
		t.Run("raw="+tt.raw, func(t *testing.T) {
			f := newFixture(t)
			form := communityForm("Foo")
			form.MaxAttempts = tt.raw
			chal, err := f.community.Create(session.Context{TeamID: ownerTeam}, form)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if chal.MaxAttempts != tt.want {
				t.Fatalf("MaxAttempts = %d, want %d", chal.MaxAttempts, tt.want)
			}
		})
	}
}

func TestCommunityCreateRejectsBadForm(t *testing.T) {
	f := newFixture(t)

	bad := communityForm("Foo")
	bad.Value = "lots"
	if _, err := f.community.Create(session.Context{TeamID: ownerTeam}, bad); !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("Create with value %q err = %v, want ErrInvalidForm", bad.Value, err)
	}

	bad = communityForm("Foo")
	bad.KeyType = "telepathy"
	if _, err := f.community.Create(session.Context{TeamID: ownerTeam}, bad); !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("Create with key type %q err = %v, want ErrInvalidForm", bad.KeyType, err)
	}

	if _, err := f.community.Create(session.Context{}, communityForm("Foo")); !errors.Is(err, ErrForbidden) {
		t.Fatalf("anonymous Create err = %v, want ErrForbidden", err)
	}
	if n := f.count(t, &model.Challenge{}, "1 = 1"); n != 0 {
		t.Fatalf("challenges = %d, want 0", n)
	}
}

func TestCommunityCreateStoresFiles(t *testing.T) {
	f := newFixture(t)
	form := communityForm("Foo")
	form.Files = append(form.Files, fileHeader(t, "../../notes.txt", "hello"))

	chal, err := f.community.Create(session.Context{TeamID: ownerTeam}, form)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	files, err := f.deps.Files.FindByChallenge(chal.ID)
	if err != nil {
		t.Fatalf("FindByChallenge: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("files = %d, want 1", len(files))
	}
	if filepath.Base(files[0].Location) != "notes.txt" {
		t.Fatalf("location = %q, want a notes.txt file", files[0].Location)
	}
	data, err := os.ReadFile(filepath.Join(f.storeDir, filepath.FromSlash(files[0].Location)))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("content = %q, want %q", data, "hello")
	}
}

func TestCommunityReadOwnAndNonce(t *testing.T) {
	f := newFixture(t)
	chal := createCommunity(t, f, "Foo")

	view, err := f.community.Read(session.Context{TeamID: ownerTeam, Nonce: "n7"}, chal)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !view.Own || view.Nonce != "n7" || view.Owner != "authors" {
		t.Fatalf("owner view = %+v, want own with nonce n7 and owner authors", view)
	}
	if view.TypeData.ID != model.ChallengeTypeCommunity || view.TypeData.Templates["modal"] == "" {
		t.Fatalf("type data = %+v, want community metadata", view.TypeData)
	}

	view, err = f.community.Read(session.Context{TeamID: solverTeam, Nonce: "n9"}, chal)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if view.Own || view.Nonce != "" {
		t.Fatalf("other view = %+v, want not own and no nonce", view)
	}
}

func TestCommunityAttempt(t *testing.T) {
	f := newFixture(t)
	chal := createCommunity(t, f, "Foo")

	tests := []struct {
		name     string
		team     uint
		provided string
		ok       bool
		msg      string
	}{
		{"owner", ownerTeam, "flag{x}", false, MessageNotAllowed},
		{"correct", solverTeam, "flag{x}", true, MessageCorrect},
		{"trimmed", solverTeam, "  flag{x}\n", true, MessageCorrect},
		{"wrong", solverTeam, "flag{y}", false, MessageIncorrect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg, err := f.community.Attempt(session.Context{TeamID: tt.team}, chal, tt.provided)
			if err != nil {
				t.Fatalf("Attempt: %v", err)
			}
			if ok != tt.ok || msg != tt.msg {
				t.Fatalf("Attempt = (%v, %q), want (%v, %q)", ok, msg, tt.ok, tt.msg)
			}
		})
	}

	for _, m := range []any{&model.Solve{}, &model.WrongKey{}, &model.Award{}} {
		if n := f.count(t, m, "1 = 1"); n != 0 {
			t.Fatalf("%T rows = %d, want 0", m, n)
		}
	}
}

func TestCommunitySolveAwardsFirstSolveOnly(t *testing.T) {
	f := newFixture(t)
	chal := createCommunity(t, f, "Foo")

	if err := f.community.Solve(session.Context{TeamID: solverTeam, IP: "10.0.0.9"}, f.team(t, solverTeam), chal, "flag{x}"); err != nil {
		t.Fatalf("Solve(9): %v", err)
	}
	awards, err := f.deps.Awards.FindByChallenge(chal.ID)
	if err != nil {
		t.Fatalf("FindByChallenge: %v", err)
	}
	if len(awards) != 1 {
		t.Fatalf("awards = %d, want 1", len(awards))
	}
	a := awards[0]
	if a.TeamID != ownerTeam || a.Value != 100 || a.Name != "Bonus points for submitting challenge Foo" {
		t.Fatalf("award = %+v, want owner 7 credited 100 for Foo", a)
	}

	if err := f.community.Solve(session.Context{TeamID: laterTeam}, f.team(t, laterTeam), chal, "flag{x}"); err != nil {
		t.Fatalf("Solve(11): %v", err)
	}
	if n := f.count(t, &model.Award{}, "1 = 1"); n != 1 {
		t.Fatalf("awards after second solve = %d, want 1", n)
	}
	if n := f.count(t, &model.Solve{}, "chal_id = ?", chal.ID); n != 2 {
		t.Fatalf("solves = %d, want 2", n)
	}
	if n := f.count(t, &model.Solve{}, "team_id = ? AND ip = ?", solverTeam, "10.0.0.9"); n != 1 {
		t.Fatalf("solves by team 9 from 10.0.0.9 = %d, want 1", n)
	}
}

func TestCommunityConcurrentFirstSolvesAwardOnce(t *testing.T) {
	f := newFixture(t)
	chal := createCommunity(t, f, "Foo")
	const racerTeam uint = 15
	if err := f.db.Create(&model.Team{ID: racerTeam, Name: "racers", Verified: true}).Error; err != nil {
		t.Fatalf("seed team: %v", err)
	}

	solvers := []*model.Team{f.team(t, solverTeam), f.team(t, laterTeam), f.team(t, racerTeam)}
	errs := make(chan error, len(solvers))
	var wg sync.WaitGroup
	for _, team := range solvers {
		wg.Add(1)
		go func(team *model.Team) {
			defer wg.Done()
			errs <- f.community.Solve(session.Context{TeamID: team.ID}, team, chal, "flag{x}")
		}(team)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Solve: %v", err)
		}
	}

	if n := f.count(t, &model.Award{}, "chal_id = ?", chal.ID); n != 1 {
		t.Fatalf("awards = %d, want 1", n)
	}
	if n := f.count(t, &model.Solve{}, "chal_id = ?", chal.ID); n != int64(len(solvers)) {
		t.Fatalf("solves = %d, want %d", n, len(solvers))
	}
}

func TestCommunitySolveIgnoresBannedSolves(t *testing.T) {
	f := newFixture(t)
	chal := createCommunity(t, f, "Foo")
	if err := f.deps.Solves.Create(&model.Solve{ChalID: chal.ID, TeamID: bannedTeam, Flag: "flag{x}"}); err != nil {
		t.Fatalf("seed banned solve: %v", err)
	}

	if err := f.community.Solve(session.Context{TeamID: solverTeam}, f.team(t, solverTeam), chal, "flag{x}"); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if n := f.count(t, &model.Award{}, "team_id = ?", ownerTeam); n != 1 {
		t.Fatalf("awards = %d, want 1", n)
	}
}

func TestCommunitySolveRefusesOwner(t *testing.T) {
	f := newFixture(t)
	chal := createCommunity(t, f, "Foo")

	err := f.community.Solve(session.Context{TeamID: ownerTeam}, f.team(t, ownerTeam), chal, "flag{x}")
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("Solve err = %v, want ErrNotAllowed", err)
	}
	if err := f.community.Fail(session.Context{TeamID: ownerTeam}, f.team(t, ownerTeam), chal, "nope"); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	for _, m := range []any{&model.Solve{}, &model.WrongKey{}, &model.Award{}} {
		if n := f.count(t, m, "1 = 1"); n != 0 {
			t.Fatalf("%T rows = %d, want 0", m, n)
		}
	}
}

func TestCommunityFailRecordsWrongKey(t *testing.T) {
	f := newFixture(t)
	chal := createCommunity(t, f, "Foo")

	if err := f.community.Fail(session.Context{TeamID: solverTeam, IP: "10.0.0.9"}, f.team(t, solverTeam), chal, " flag{y} "); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if n := f.count(t, &model.WrongKey{}, "chal_id = ? AND team_id = ? AND flag = ? AND ip = ?", chal.ID, solverTeam, "flag{y}", "10.0.0.9"); n != 1 {
		t.Fatalf("wrong keys = %d, want 1", n)
	}
}

func TestCommunityUpdate(t *testing.T) {
	f := newFixture(t)
	chal := createCommunity(t, f, "Foo")

	err := f.community.Update(session.Context{TeamID: ownerTeam}, chal, updateForm(chal.ID, "Bar", "", ""))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	stored, err := f.deps.Challenges.FindByID(chal.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Name != "Bar" || stored.Value != 0 || stored.MaxAttempts != 0 || stored.Hidden {
		t.Fatalf("stored = %+v, want Bar with zero value and attempts, visible", stored)
	}

	form := updateForm(chal.ID, "Bar", "250", "5")
	form.Hidden = "on"
	if err := f.community.Update(session.Context{TeamID: ownerTeam}, stored, form); err != nil {
		t.Fatalf("Update: %v", err)
	}
	stored, _ = f.deps.Challenges.FindByID(chal.ID)
	if stored.Value != 250 || stored.MaxAttempts != 5 || stored.Hidden {
		t.Fatalf("stored = %+v, want value 250, 5 attempts, visible", stored)
	}

	if err := f.community.Update(session.Context{TeamID: ownerTeam}, stored, updateForm(chal.ID, "  Bar v2 ", "250", "5")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	stored, _ = f.deps.Challenges.FindByID(chal.ID)
	if stored.Name != "  Bar v2 " {
		t.Fatalf("name = %q, want the submitted name unchanged", stored.Name)
	}
}

func TestCommunityDeleteLeavesNoResidue(t *testing.T) {
	f := newFixture(t)
	form := communityForm("Foo")
	form.Files = append(form.Files, fileHeader(t, "a.txt", "a"))
	chal, err := f.community.Create(session.Context{TeamID: ownerTeam}, form)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	other := createCommunity(t, f, "Other")

	files, _ := f.deps.Files.FindByChallenge(chal.ID)
	stored := filepath.Join(f.storeDir, filepath.FromSlash(files[0].Location))

	if err := f.community.Solve(session.Context{TeamID: solverTeam}, f.team(t, solverTeam), chal, "flag{x}"); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if err := f.community.Fail(session.Context{TeamID: laterTeam}, f.team(t, laterTeam), chal, "nope"); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	seed := []any{
		&model.Tag{ChalID: chal.ID, Tag: "web"},
		&model.Hint{ChalID: chal.ID, Hint: "look closer", Cost: 5},
		// Written before awards carried chal_id.
		&model.Award{TeamID: ownerTeam, Name: BonusAwardName("Foo"), Value: 100},
	}
	for _, row := range seed {
		if err := f.db.Create(row).Error; err != nil {
			t.Fatalf("seed %T: %v", row, err)
		}
	}

	if err := f.community.Delete(chal); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	for _, m := range []any{&model.WrongKey{}, &model.Solve{}, &model.Key{}, &model.File{}, &model.Tag{}, &model.Hint{}, &model.Award{}} {
		if n := f.count(t, m, "chal_id = ?", chal.ID); n != 0 {
			t.Fatalf("%T rows for deleted challenge = %d, want 0", m, n)
		}
	}
	if n := f.count(t, &model.Award{}, "1 = 1"); n != 0 {
		t.Fatalf("awards = %d, want 0", n)
	}
	if n := f.count(t, &model.CommunityChallenge{}, "id = ?", chal.ID); n != 0 {
		t.Fatalf("community rows = %d, want 0", n)
	}
	if n := f.count(t, &model.Challenge{}, "id = ?", chal.ID); n != 0 {
		t.Fatalf("challenge rows = %d, want 0", n)
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Fatalf("stored file still present: %v", err)
	}

	if n := f.count(t, &model.Key{}, "chal_id = ?", other.ID); n != 1 {
		t.Fatalf("keys of untouched challenge = %d, want 1", n)
	}
}
