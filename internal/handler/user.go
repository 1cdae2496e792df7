package handler

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/parking-reservation/internal/model"
    "github.com/iliyamo/parking-reservation/internal/repository"
    "github.com/iliyamo/parking-reservation/internal/utils"
)

// UserHandler exposes user registration and lookup, plus the user side
// of car ownership.
type UserHandler struct {
    UserRepo   *repository.UserRepo
    CarRepo    *repository.CarRepo
    BcryptCost int
}

// NewUserHandler constructs a UserHandler and panics if a repository is nil.
func NewUserHandler(userRepo *repository.UserRepo, carRepo *repository.CarRepo, bcryptCost int) *UserHandler {
    if userRepo == nil || carRepo == nil {
        panic("nil repository passed to NewUserHandler")
    }
    return &UserHandler{UserRepo: userRepo, CarRepo: carRepo, BcryptCost: bcryptCost}
}

// userView is the response shape for users.  The password hash never
// leaves the service.
type userView struct {
    ID        uint64 `json:"id"`
    FullName  string `json:"full_name"`
    Email     string `json:"email"`
    CreatedAt string `json:"created_at"`
}

func toUserView(u *model.User) userView {
    return userView{
        ID:        u.ID,
        FullName:  u.FullName,
        Email:     u.Email,
        CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
    }
}

// CreateUser handles POST /v1/users.  Emails are unique; the password
// is stored as a bcrypt hash.
func (h *UserHandler) CreateUser(c echo.Context) error {
    var body struct {
        FullName string `json:"full_name"`
        Email    string `json:"email"`
        Password string `json:"password"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    fullName := strings.TrimSpace(body.FullName)
    email := strings.ToLower(strings.TrimSpace(body.Email))
    if fullName == "" || email == "" || body.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name, email and password are required"})
    }
    ctx := c.Request().Context()
    taken, err := h.UserRepo.EmailExists(ctx, email)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if taken {
        return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
    }
    hash, err := utils.HashPassword(body.Password, h.BcryptCost)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hash password"})
    }
    u := &model.User{FullName: fullName, Email: email, PasswordHash: hash}
    if err := h.UserRepo.Create(ctx, u); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create user"})
    }
    return c.JSON(http.StatusCreated, toUserView(u))
}

// ListUsers handles GET /v1/users.
func (h *UserHandler) ListUsers(c echo.Context) error {
    users, err := h.UserRepo.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load users"})
    }
    items := make([]userView, 0, len(users))
    for i := range users {
        items = append(items, toUserView(&users[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetUser handles GET /v1/users/:id.
func (h *UserHandler) GetUser(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }
    u, err := h.UserRepo.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrUserNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toUserView(u)})
}

// AssignCar handles PUT /v1/users/:id/cars/:carId.  It records the
// ownership relation; assigning a car twice to the same user is a
// conflict.
func (h *UserHandler) AssignCar(c echo.Context) error {
    userID, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }
    carID, ok := parseID(c, "carId")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
    }
    ctx := c.Request().Context()
    if _, err := h.UserRepo.GetByID(ctx, userID); err != nil {
        if errors.Is(err, repository.ErrUserNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if _, err := h.CarRepo.GetByID(ctx, carID); err != nil {
        if errors.Is(err, repository.ErrCarNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if err := h.CarRepo.AddOwner(ctx, userID, carID); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "car already assigned to this user"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not assign car"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListUserCars handles GET /v1/users/:id/cars.
func (h *UserHandler) ListUserCars(c echo.Context) error {
    userID, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }
    ctx := c.Request().Context()
    if _, err := h.UserRepo.GetByID(ctx, userID); err != nil {
        if errors.Is(err, repository.ErrUserNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    cars, err := h.CarRepo.ListByUser(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load cars"})
    }
    items := make([]echo.Map, 0, len(cars))
    for _, car := range cars {
        items = append(items, echo.Map{
            "id":            car.ID,
            "license_plate": car.LicensePlate,
            "model":         car.Model,
            "color":         car.Color,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
