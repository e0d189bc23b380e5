package couple

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// Low cost keeps the bcrypt-heavy tests fast.
const testBcryptCost = bcrypt.MinCost

func newTestService() *Service {
	return NewService(NewMemoryStore(), testBcryptCost)
}

func TestSignupSequence(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "Alice@Example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if first.Coupled {
		t.Fatal("first user should not be coupled yet")
	}
	if len(first.InviteCode) != inviteLength {
		t.Fatalf("expected %d-char invite code, got %q", inviteLength, first.InviteCode)
	}
	if first.User.Email != "alice@example.com" {
		t.Fatalf("email not lowercased: %q", first.User.Email)
	}

	second, err := svc.Signup(ctx, SignupInput{Name: "Bob", Email: "bob@example.com", Password: "secret99", InviteCode: first.InviteCode})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if !second.Coupled {
		t.Fatal("expected coupled:true after join")
	}
	if second.Partner == nil || second.Partner.Name != "Alice" {
		t.Fatalf("expected partner Alice, got %+v", second.Partner)
	}

	if _, err := svc.Signup(ctx, SignupInput{Name: "Carol", Email: "carol@example.com", Password: "pw123456"}); !errors.Is(err, ErrSlotsFull) {
		t.Fatalf("expected ErrSlotsFull, got %v", err)
	}
	if _, err := svc.Signup(ctx, SignupInput{Name: "Carol", Email: "carol@example.com", Password: "pw123456", InviteCode: first.InviteCode}); !errors.Is(err, ErrSlotsFull) {
		t.Fatalf("expected ErrSlotsFull with code too, got %v", err)
	}
}

func TestSignupInviteCaseInsensitive(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "a@x.com", Password: "pw"})
	if err != nil {
		t.Fatalf("first signup: %v", err)
	}

	joined, err := svc.Signup(ctx, SignupInput{Name: "Bob", Email: "b@x.com", Password: "pw", InviteCode: strings.ToLower(first.InviteCode)})
	if err != nil {
		t.Fatalf("lowercase invite should match: %v", err)
	}
	if !joined.Coupled {
		t.Fatal("expected coupled after lowercase join")
	}
}

func TestSignupInvalidInvite(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "a@x.com", Password: "pw"}); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(ctx, SignupInput{Name: "Bob", Email: "b@x.com", Password: "pw", InviteCode: "WRONG9"}); !errors.Is(err, ErrInvalidInvite) {
		t.Fatalf("expected ErrInvalidInvite, got %v", err)
	}
}

func TestSignupNoCoupleToJoin(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Signup(context.Background(), SignupInput{Name: "Bob", Email: "b@x.com", Password: "pw", InviteCode: "ABCDEF"}); !errors.Is(err, ErrNoCoupleToJoin) {
		t.Fatalf("expected ErrNoCoupleToJoin, got %v", err)
	}
}

func TestSignupFirstUserExists(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "a@x.com", Password: "pw"}); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(ctx, SignupInput{Name: "Eve", Email: "e@x.com", Password: "pw"}); !errors.Is(err, ErrFirstUserExists) {
		t.Fatalf("expected ErrFirstUserExists, got %v", err)
	}
}

func TestSignupEmailTakenCaseInsensitive(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "alice@x.com", Password: "pw"})
	if err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(ctx, SignupInput{Name: "Imposter", Email: "ALICE@X.COM", Password: "pw", InviteCode: first.InviteCode}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignupMissingFields(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Signup(context.Background(), SignupInput{Name: "Alice"}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "a@x.com", Password: "hunter22", StartDate: "2024-02-14"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	res, err := svc.Login(ctx, "A@X.COM", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Coupled {
		t.Fatal("should not be coupled yet")
	}
	if res.InviteCode != first.InviteCode {
		t.Fatalf("expected invite code %q while unpaired, got %q", first.InviteCode, res.InviteCode)
	}

	if _, err := svc.Login(ctx, "nobody@x.com", "hunter22"); !errors.Is(err, ErrNoSuchUser) {
		t.Fatalf("expected ErrNoSuchUser, got %v", err)
	}
	if _, err := svc.Login(ctx, "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// After pairing, login returns the partner and no invite code.
	if _, err := svc.Signup(ctx, SignupInput{Name: "Bob", Email: "b@x.com", Password: "pw", InviteCode: first.InviteCode}); err != nil {
		t.Fatalf("join: %v", err)
	}
	res, err = svc.Login(ctx, "a@x.com", "hunter22")
	if err != nil {
		t.Fatalf("login after pairing: %v", err)
	}
	if !res.Coupled || res.Partner == nil || res.Partner.Name != "Bob" {
		t.Fatalf("expected coupled login with partner Bob, got %+v", res)
	}
	if res.InviteCode != "" {
		t.Fatalf("invite code should be withheld once paired, got %q", res.InviteCode)
	}
}

func TestStatus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	st, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("status empty: %v", err)
	}
	if st.Coupled || st.User1 != nil || st.User2 != nil {
		t.Fatalf("expected empty status, got %+v", st)
	}

	first, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "a@x.com", Password: "pw", StartDate: "2024-02-14"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	st, err = svc.Status(ctx)
	if err != nil {
		t.Fatalf("status awaiting partner: %v", err)
	}
	if st.Coupled || st.InviteCode != first.InviteCode || st.StartDate != "2024-02-14" {
		t.Fatalf("unexpected awaiting status: %+v", st)
	}

	if _, err := svc.Signup(ctx, SignupInput{Name: "Bob", Email: "b@x.com", Password: "pw", InviteCode: first.InviteCode}); err != nil {
		t.Fatalf("join: %v", err)
	}

	st, err = svc.Status(ctx)
	if err != nil {
		t.Fatalf("status paired: %v", err)
	}
	if !st.Coupled || st.InviteCode != "" || st.PairedAt == nil {
		t.Fatalf("unexpected paired status: %+v", st)
	}
	if st.User1.Name != "Alice" || st.User2.Name != "Bob" {
		t.Fatalf("unexpected profiles: %+v %+v", st.User1, st.User2)
	}
}

// Two simultaneous joins with the same valid invite code must produce
// exactly one second user.
func TestConcurrentJoinRace(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "a@x.com", Password: "pw"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = svc.Signup(ctx, SignupInput{
				Name:       "Joiner",
				Email:      string(rune('b'+n)) + "@x.com",
				Password:   "pw",
				InviteCode: first.InviteCode,
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotsFull), errors.Is(err, ErrAlreadyPaired):
		default:
			t.Fatalf("unexpected race error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one winning join, got %d", successes)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "a@x.com", Password: "pw"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, first.User.ID, "Ally", "pic.png")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Name != "Ally" || updated.ProfilePic != "pic.png" {
		t.Fatalf("unexpected profile: %+v", updated)
	}
	if updated.Email != "a@x.com" || updated.ID != first.User.ID {
		t.Fatalf("immutable fields changed: %+v", updated)
	}

	if _, err := svc.UpdateProfile(ctx, "nope", "X", ""); !errors.Is(err, ErrNoSuchUser) {
		t.Fatalf("expected ErrNoSuchUser, got %v", err)
	}
}
