package services_test

import (
	"errors"
	"testing"

	"stockroom/internal/repos"
	"stockroom/internal/services"
)

func TestRegisterCreatesUserWithCart(t *testing.T) {
	db := memdb(t)
	auth := &services.AuthService{Users: repos.NewUserRepo(db)}

	u, err := auth.Register("sid-new", "casey@stockroom.test", "Casey", "S3cure!pw")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != "USER" {
		t.Fatalf("want USER role, got %s", u.Role)
	}

	// the cart exists from the first moment, no lazy creation anywhere
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM carts WHERE user_id = ?`, u.ID); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want exactly one cart, got %d", n)
	}

	// the session was bound
	got, err := auth.CurrentUser("sid-new")
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("session not bound: %v %v", got, err)
	}

	// new users can add to their cart immediately
	cartSvc, _ := newCartService(db)
	if _, err := cartSvc.Add(u.ID, "paper-a4", 2); err != nil {
		t.Fatalf("fresh user cannot use cart: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := memdb(t)
	auth := &services.AuthService{Users: repos.NewUserRepo(db)}

	// dana@stockroom.test is seeded
	_, err := auth.Register("sid-x", "dana@stockroom.test", "Dana Again", "S3cure!pw")
	if !errors.Is(err, services.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestUpdateProfilePersists(t *testing.T) {
	db := memdb(t)
	auth := &services.AuthService{Users: repos.NewUserRepo(db)}

	u, err := auth.UpdateProfile("u-dana", "Dana Q", "301-555-0199", "2 Elm St, Laurel MD")
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "Dana Q" || u.Phone != "301-555-0199" || u.Address != "2 Elm St, Laurel MD" {
		t.Fatalf("profile not applied: %+v", u)
	}

	// the change survives a fresh read, and the untouchable fields held
	fresh, err := repos.NewUserRepo(db).ByID("u-dana")
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Phone != "301-555-0199" || fresh.Address != "2 Elm St, Laurel MD" {
		t.Fatalf("profile not persisted: %+v", fresh)
	}
	if fresh.Email != "dana@stockroom.test" || fresh.Role != "USER" {
		t.Fatalf("profile update touched protected fields: %+v", fresh)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	db := memdb(t)
	auth := &services.AuthService{Users: repos.NewUserRepo(db)}

	if _, err := auth.Login("sid-y", "dana@stockroom.test", "wrong-password"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds, got %v", err)
	}
	if _, err := auth.Login("sid-y", "nobody@stockroom.test", "Passw0rd!"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds, got %v", err)
	}

	u, err := auth.Login("sid-y", "dana@stockroom.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != "u-dana" {
		t.Fatalf("wrong user: %s", u.ID)
	}
}
