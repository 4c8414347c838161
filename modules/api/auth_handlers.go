package api

import (
	"time"

	"github.com/example/task-tracker/modules/user"
	"github.com/gofiber/fiber/v2"
)

const (
	msgRegistered     = "User Created Successfully"
	msgRegisterFailed = "User Creation Failed!"
	msgLoggedIn       = "User Loggedin!"
	msgLoginFailed    = "User Login Failed!"
	msgLoggedOut      = "User Logged Out!"
)

// register handles POST /auth/register.
func (m *Module) register(c *fiber.Ctx) error {
	var body RegisterBody
	if err := c.BodyParser(&body); err != nil {
		return m.userFailure(c, bindFailure(err, MsgWrongJSON), err)
	}

	res, err := m.users.Register(c.UserContext(), user.RegisterInput{
		Username:  body.Username,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Password:  body.Password,
	})
	if err != nil {
		return m.userFailure(c, classify(err, MsgWrongJSON, msgRegisterFailed), err)
	}

	m.setSessionCookie(c, res.Token)
	return c.Status(fiber.StatusCreated).JSON(UserEnvelope{
		Success: true,
		Message: msgRegistered,
		User:    &res.User,
	})
}

// login handles POST /auth/login.
func (m *Module) login(c *fiber.Ctx) error {
	var body LoginBody
	if err := c.BodyParser(&body); err != nil {
		return m.userFailure(c, bindFailure(err, MsgWrongJSON), err)
	}

	res, err := m.users.Login(c.UserContext(), body.Username, body.Password)
	if err != nil {
		return m.userFailure(c, classify(err, MsgWrongJSON, msgLoginFailed), err)
	}

	m.setSessionCookie(c, res.Token)
	return c.JSON(UserEnvelope{
		Success: true,
		Message: msgLoggedIn,
		User:    &res.User,
	})
}

// logout handles POST /auth/logout.
func (m *Module) logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   m.cfg.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(BaseResponse{Success: true, Message: msgLoggedOut})
}

func (m *Module) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.cfg.CookieMaxAge / time.Second),
		HTTPOnly: true,
		Secure:   m.cfg.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// userFailure writes a failed UserEnvelope.
func (m *Module) userFailure(c *fiber.Ctx, f failure, err error) error {
	m.logFailure(c, f, err)
	return c.Status(f.status).JSON(UserEnvelope{
		Success: false,
		Message: f.message,
		Errors:  f.errors,
	})
}

func (m *Module) logFailure(c *fiber.Ctx, f failure, err error) {
	if f.status >= fiber.StatusInternalServerError {
		m.logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return
	}
	m.logger.Debug().Err(err).Str("path", c.Path()).Int("status", f.status).Msg("request rejected")
}
