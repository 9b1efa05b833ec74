package profile

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/api"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/router"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/store"
)

type fakeAccount struct {
	profile    *api.Profile
	profileErr error
	logoutErr  error
}

func (f *fakeAccount) Profile(context.Context) (*api.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeAccount) Logout(context.Context) error {
	return f.logoutErr
}

type fakeUsage struct {
	rows map[string]store.Usage
}

func (f *fakeUsage) UsageByModel(context.Context) (map[string]store.Usage, error) {
	return f.rows, nil
}

func testProfile() *api.Profile {
	return &api.Profile{
		UserID:      "u1",
		Nickname:    "mina",
		Email:       "mina@example.com",
		SolvedCount: 42,
		StreakDays:  7,
		JoinedAt:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func loaded(p *ProfileScreen, usage map[string]store.Usage) {
	p.Update(loadedMsg{Profile: testProfile(), Usage: usage})
}

func TestProfileDisplaysIdentityAndStats(t *testing.T) {
	p := New(&fakeAccount{profile: testProfile()}, &fakeUsage{})
	loaded(p, nil)

	view := p.View(100, 30)
	for _, want := range []string{"@mina", "mina@example.com", "42 solved", "★ 7 day streak", "Mar 2025"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestProfileUsageTableWithCosts(t *testing.T) {
	p := New(&fakeAccount{profile: testProfile()}, &fakeUsage{})
	loaded(p, map[string]store.Usage{
		"claude-sonnet-4-5": {Requests: 2, InputTokens: 1_000_000, OutputTokens: 1_000_000},
	})

	view := p.View(100, 30)
	if !strings.Contains(view, "claude-sonnet-4-5") {
		t.Error("expected model row")
	}
	// 1M in at $3 + 1M out at $15
	if !strings.Contains(view, "$18.0000") {
		t.Errorf("expected cost column in view:\n%s", view)
	}
	if !strings.Contains(view, "total $18.0000") {
		t.Error("expected total line")
	}
}

func TestProfileUnpricedModelExcludedFromTotal(t *testing.T) {
	p := New(&fakeAccount{profile: testProfile()}, &fakeUsage{})
	loaded(p, map[string]store.Usage{
		"some-local-model": {Requests: 1, InputTokens: 10, OutputTokens: 10},
	})

	view := p.View(100, 30)
	if !strings.Contains(view, "some-local-model") {
		t.Error("expected unpriced model row")
	}
	if !strings.Contains(view, "unpriced models excluded") {
		t.Errorf("expected exclusion note in view:\n%s", view)
	}
}

func TestProfileLoadErrorShown(t *testing.T) {
	p := New(&fakeAccount{profileErr: errors.New("token revoked")}, &fakeUsage{})
	p.Update(loadedMsg{Err: errors.New("token revoked")})

	view := p.View(100, 30)
	if !strings.Contains(view, "Something went wrong") {
		t.Error("expected error headline")
	}
	if !strings.Contains(view, "token revoked") {
		t.Error("expected error detail")
	}
}

func TestProfileSignOutEmitsSignedOut(t *testing.T) {
	p := New(&fakeAccount{profile: testProfile()}, &fakeUsage{})
	loaded(p, nil)

	_, cmd := p.Update(signedOutMsg{})
	if cmd == nil {
		t.Fatal("expected a command after sign-out completes")
	}
	if _, ok := cmd().(SignedOutMsg); !ok {
		t.Error("expected SignedOutMsg")
	}
}

func TestProfileSignOutFailureStays(t *testing.T) {
	p := New(&fakeAccount{profile: testProfile()}, &fakeUsage{})
	loaded(p, nil)

	_, cmd := p.Update(signedOutMsg{Err: errors.New("network down")})
	if cmd != nil {
		t.Error("a failed sign-out should not emit SignedOutMsg")
	}
	if !strings.Contains(p.View(100, 30), "network down") {
		t.Error("expected sign-out error in view")
	}
}

func TestProfileEscPops(t *testing.T) {
	p := New(&fakeAccount{profile: testProfile()}, &fakeUsage{})
	loaded(p, nil)

	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
