package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"stockroom/internal/log"
	"stockroom/internal/services"
	"stockroom/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // set true behind TLS
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password"})
	}

	_, err := h.Auth.Login(sid, email, pass)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password"})
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/")
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email, okE := validate.Email(c.FormValue("email"))
	name, okN := validate.Name(c.FormValue("name"))
	pass := c.FormValue("password")
	if !okE || !okN {
		log.Security(c, "auth.register.fail", map[string]any{"reason": "bad_input"})
		return c.Status(400).Render("register", fiber.Map{"Err": "Enter a valid name and email"})
	}
	if !validate.Password(pass) {
		return c.Status(400).Render("register", fiber.Map{"Err": "Password needs 8+ chars with upper, lower, digit and symbol"})
	}

	_, err := h.Auth.Register(sid, email, name, pass)
	if err != nil {
		log.Security(c, "auth.register.fail", map[string]any{"email": email})
		return c.Status(400).Render("register", fiber.Map{"Err": "Could not create the account"})
	}

	log.Audit(c, "auth.register.success", map[string]any{"email": email})
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}

// ---------- Profile ----------

func (h *AuthHandler) ProfileForm(c *fiber.Ctx) error {
	return render(c, "profile", fiber.Map{"Err": "", "Saved": false})
}

func (h *AuthHandler) ProfileSave(c *fiber.Ctx) error {
	u := currentUser(c)
	name, okN := validate.Name(c.FormValue("name"))
	if !okN {
		return c.Status(400).Render("profile", fiber.Map{"User": u, "Err": "Enter a valid name"})
	}
	phone := c.FormValue("phone")
	if phone != "" {
		if _, ok := validate.Phone(phone); !ok {
			return c.Status(400).Render("profile", fiber.Map{"User": u, "Err": "Enter a valid phone number"})
		}
	}
	address := c.FormValue("address")
	if address != "" {
		if _, ok := validate.Address(address); !ok {
			return c.Status(400).Render("profile", fiber.Map{"User": u, "Err": "Enter a valid address"})
		}
	}

	updated, err := h.Auth.UpdateProfile(u.ID, name, phone, address)
	if err != nil {
		log.Error(c, "profile.save.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not save your profile"})
	}
	log.Audit(c, "profile.save", nil)
	c.Locals("user", updated)
	return render(c, "profile", fiber.Map{"Saved": true})
}

func (h *AuthHandler) APIProfile(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

type profileReq struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// APIUpdateProfile patches the editable fields; omitted fields keep their
// current values.
func (h *AuthHandler) APIUpdateProfile(c *fiber.Ctx) error {
	u := currentUser(c)
	var req profileReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}

	name := u.Name
	if req.Name != "" {
		valid, ok := validate.Name(req.Name)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid name"})
		}
		name = valid
	}
	phone := u.Phone
	if req.Phone != "" {
		valid, ok := validate.Phone(req.Phone)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid phone"})
		}
		phone = valid
	}
	address := u.Address
	if req.Address != "" {
		valid, ok := validate.Address(req.Address)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid address"})
		}
		address = valid
	}

	updated, err := h.Auth.UpdateProfile(u.ID, name, phone, address)
	if err != nil {
		return respondError(c, "api.profile.update", err)
	}
	log.Audit(c, "profile.save", nil)
	return c.JSON(updated)
}
