package api

import (
	"time"

	"github.com/lucaferrani/luce/internal/db"
	"github.com/lucaferrani/luce/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	location     *time.Location
	cookieSecure bool

	repositories *db.Repositories
	authService  *services.AuthService
	dayService   *services.DayService
	stateService *services.StateService
	assistant    *services.AssistantService

	loginLimiter *attemptLimiter
}

type credentialsInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Name     string `json:"name" form:"name"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

type mealInput struct {
	Slot  string `json:"slot"`
	Entry string `json:"entry"`
}

type checkInInput struct {
	Status string            `json:"status"`
	Meals  map[string]string `json:"meals"`
	Mood   string            `json:"mood"`
}

type chatInput struct {
	History []services.ChatTurn `json:"history"`
	Message string              `json:"message"`
}

const defaultAuthTokenTTL = 7 * 24 * time.Hour

func NewHandler(database *gorm.DB, secret string, location *time.Location, assistant *services.AssistantService, cookieSecure bool) *Handler {
	if location == nil {
		location = time.Local
	}
	if assistant == nil {
		assistant = services.NewAssistantService(nil, "")
	}

	repositories := db.NewRepositories(database)
	policy := services.DefaultCompletionPolicy()

	return &Handler{
		db:           database,
		secretKey:    []byte(secret),
		location:     location,
		cookieSecure: cookieSecure,
		repositories: repositories,
		authService:  services.NewAuthService(repositories.Users),
		dayService:   services.NewDayService(repositories.Days, repositories.Users, policy, location),
		stateService: services.NewStateService(repositories.Days, repositories.Users, policy, location),
		assistant:    assistant,
		loginLimiter: newAttemptLimiter(),
	}
}
