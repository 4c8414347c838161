package api

import (
	"github.com/gofiber/fiber/v2"
)

const (
	msgUserList        = "List Of Users!"
	msgUserFound       = "Here is the user!"
	msgUserFetchFailed = "Crap! Some Error Occured!"
	msgUserUpdated     = "User updated successfully!"
	msgUserUpdateFail  = "User updation failed!"
)

// listUsers handles GET /user.
func (m *Module) listUsers(c *fiber.Ctx) error {
	users, err := m.users.ListUsers(c.UserContext())
	if err != nil {
		f := classify(err, MsgInvalidJSON, msgUserFetchFailed)
		m.logFailure(c, f, err)
		return c.Status(f.status).JSON(UsersEnvelope{
			Success: false,
			Message: f.message,
			Errors:  f.errors,
		})
	}
	return c.JSON(UsersEnvelope{
		Success: true,
		Message: msgUserList,
		Users:   users,
	})
}

// getUserByUsername handles GET /user/:username.
func (m *Module) getUserByUsername(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(BaseResponse{Success: false, Message: MsgParamIDMissing})
	}

	found, err := m.users.GetByUsername(c.UserContext(), username)
	if err != nil {
		return m.userFailure(c, classify(err, MsgInvalidJSON, msgUserFetchFailed), err)
	}
	return c.JSON(UserEnvelope{
		Success: true,
		Message: msgUserFound,
		User:    found,
	})
}

// updateUser handles PUT /user/:id.
func (m *Module) updateUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(BaseResponse{Success: false, Message: MsgParamIDMissing})
	}

	var body UpdateUserBody
	if err := c.BodyParser(&body); err != nil {
		return m.updateUserFailure(c, bindFailure(err, MsgInvalidJSON), err)
	}

	previous, current, err := m.users.UpdateProfile(c.UserContext(), id, body.User)
	if err != nil {
		return m.updateUserFailure(c, classify(err, MsgInvalidJSON, msgUserUpdateFail), err)
	}
	return c.JSON(UpdateUserEnvelope{
		Success:      true,
		Message:      msgUserUpdated,
		PreviousUser: &previous,
		CurrentUser:  &current,
	})
}

func (m *Module) updateUserFailure(c *fiber.Ctx, f failure, err error) error {
	m.logFailure(c, f, err)
	return c.Status(f.status).JSON(UpdateUserEnvelope{
		Success: false,
		Message: f.message,
		Errors:  f.errors,
	})
}
