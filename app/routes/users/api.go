package users

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/whovivekshukla/dailype/app/config"
	"github.com/whovivekshukla/dailype/app/database"
)

func CreateUserAPI(c *fiber.Ctx) error {
	type CreateUserRequest struct {
		FullName  string `json:"full_name"`
		MobNum    string `json:"mob_num"`
		PanNum    string `json:"pan_num"`
		ManagerID string `json:"manager_id"`
	}

	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid request"})
	}

	if req.FullName == "" {
		return c.Status(400).JSON(fiber.Map{"message": "Full name is required"})
	}

	if !validMobileNumber(req.MobNum) {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid mobile number"})
	}

	panNum := strings.ToUpper(req.PanNum)
	if !validPANNumber(panNum) {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid PAN number"})
	}

	db := config.GetDB()

	// Any manager row qualifies here, active or not.
	if req.ManagerID != "" {
		exists, err := database.ManagerExists(db, req.ManagerID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"message": "Failed to verify manager"})
		}
		if !exists {
			return c.Status(400).JSON(fiber.Map{"message": "Invalid manager ID"})
		}
	}

	mobNum := normalizeMobileNumber(req.MobNum)

	exists, err := database.ActiveUserExistsByMobile(db, mobNum)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Failed to check mobile number"})
	}
	if exists {
		return c.Status(400).JSON(fiber.Map{"message": "User with the same mobile number already exists"})
	}

	exists, err = database.ActiveUserExistsByPAN(db, panNum)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Failed to check PAN number"})
	}
	if exists {
		return c.Status(400).JSON(fiber.Map{"message": "User with the same PAN number already exists"})
	}

	user := newUserRecord(req.FullName, mobNum, panNum, req.ManagerID)
	if err := database.CreateUser(db, user); err != nil {
		// The partial unique indexes can still fire under concurrent
		// creates; report those the same way as the pre-checks.
		switch {
		case errors.Is(err, database.ErrDuplicateMobile):
			return c.Status(400).JSON(fiber.Map{"message": "User with the same mobile number already exists"})
		case errors.Is(err, database.ErrDuplicatePAN):
			return c.Status(400).JSON(fiber.Map{"message": "User with the same PAN number already exists"})
		default:
			return c.Status(500).JSON(fiber.Map{"message": "Failed to create user"})
		}
	}

	return c.Status(201).JSON(fiber.Map{"message": "User created successfully"})
}

func GetUsersAPI(c *fiber.Ctx) error {
	type GetUsersRequest struct {
		UserID    string `json:"user_id"`
		MobNum    string `json:"mob_num"`
		ManagerID string `json:"manager_id"`
	}

	// All filters are optional; an empty or missing body means no filters.
	var req GetUsersRequest
	_ = c.BodyParser(&req)

	users, err := database.GetUsers(config.GetDB(), database.UserFilters{
		UserID:    req.UserID,
		MobNum:    req.MobNum,
		ManagerID: req.ManagerID,
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Failed to fetch users"})
	}

	return c.JSON(users)
}

func DeleteUserAPI(c *fiber.Ctx) error {
	type DeleteUserRequest struct {
		UserID string `json:"user_id"`
		MobNum string `json:"mob_num"`
	}

	var req DeleteUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid request"})
	}

	if req.UserID == "" && req.MobNum == "" {
		return c.Status(400).JSON(fiber.Map{"message": "Either user_id or mob_num is required"})
	}

	db := config.GetDB()

	// user_id wins when both are supplied.
	user, err := database.FindActiveUser(db, req.UserID, req.MobNum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"message": "User not found"})
		}
		return c.Status(500).JSON(fiber.Map{"message": "Failed to fetch user"})
	}

	if err := database.DeleteUser(db, user.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Failed to delete user"})
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// UpdateUsersAPI is the bulk manager reassignment endpoint. Only manager_id
// may be updated in bulk; everything else must go through per-user flows.
func UpdateUsersAPI(c *fiber.Ctx) error {
	type UpdateUsersRequest struct {
		UserIDs    json.RawMessage `json:"user_ids"`
		UpdateData json.RawMessage `json:"update_data"`
	}

	var req UpdateUsersRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid request"})
	}

	var userIDs []string
	if len(req.UserIDs) == 0 || json.Unmarshal(req.UserIDs, &userIDs) != nil || len(userIDs) == 0 {
		return c.Status(400).JSON(fiber.Map{"message": "user_ids is required and must be a list"})
	}

	var updateData map[string]interface{}
	if len(req.UpdateData) == 0 || json.Unmarshal(req.UpdateData, &updateData) != nil || len(updateData) == 0 {
		return c.Status(400).JSON(fiber.Map{"message": "update_data is required and must be an object"})
	}

	extraKeys := make([]string, 0)
	for key := range updateData {
		if key != "manager_id" {
			extraKeys = append(extraKeys, key)
		}
	}
	if len(extraKeys) > 0 {
		sort.Strings(extraKeys)
		return c.Status(400).JSON(fiber.Map{
			"message": fmt.Sprintf("Cannot update keys: %s in bulk. These keys can be updated individually only.",
				strings.Join(extraKeys, ", ")),
		})
	}

	db := config.GetDB()

	// An absent or empty manager_id means unassign (NULL target).
	var managerID *string
	requestedID := ""
	if raw, ok := updateData["manager_id"]; ok && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return c.Status(400).JSON(fiber.Map{"message": "Invalid manager ID format"})
		}
		requestedID = s
		if s != "" {
			parsed, err := uuid.Parse(s)
			if err != nil {
				return c.Status(400).JSON(fiber.Map{"message": "Invalid manager ID format"})
			}
			id := parsed.String()

			// Unlike create_user, the bulk endpoint only accepts an
			// active manager as the target.
			active, err := database.ActiveManagerExists(db, id)
			if err != nil {
				return c.Status(500).JSON(fiber.Map{"message": "Failed to verify manager"})
			}
			if !active {
				return c.Status(400).JSON(fiber.Map{"message": "Invalid manager ID"})
			}
			managerID = &id
		}
	}

	if err := database.ReassignUsersManager(db, userIDs, managerID, requestedID); err != nil {
		var conflict *database.ManagerAlreadySetError
		switch {
		case errors.Is(err, database.ErrUsersNotFound):
			return c.Status(404).JSON(fiber.Map{"message": "One or more user IDs not found"})
		case errors.As(err, &conflict):
			return c.Status(400).JSON(fiber.Map{"message": conflict.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"message": "Failed to update users"})
		}
	}

	return c.JSON(fiber.Map{"message": "Users updated successfully"})
}

func GetInactiveUsersAPI(c *fiber.Ctx) error {
	users, err := database.GetInactiveUsers(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Failed to fetch inactive users"})
	}

	return c.JSON(fiber.Map{"users": users})
}
