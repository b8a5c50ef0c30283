package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"surveybuilder/internal/app"
	"surveybuilder/internal/cli"
	"surveybuilder/internal/config"
	"surveybuilder/internal/editor"
	"surveybuilder/internal/logger"
	"surveybuilder/internal/model"
	"surveybuilder/internal/service"
)

// defaultSurvey is loaded when no draft files are given
var defaultSurvey = model.Survey{
	Title:       "Smartphone Launch Feedback",
	Description: "Understand user perception, satisfaction, and improvement areas for the new device.",
	Questions: []model.SurveyQuestion{
		{
			Text:     "How satisfied are you with this smartphone overall?",
			Type:     model.QuestionTypeSingleChoice,
			Required: true,
			Options:  []string{"1", "2", "3", "4", "5"},
		},
		{
			Text:    "Which model did you purchase?",
			Type:    model.QuestionTypeSingleChoice,
			Options: []string{"Standard", "Pro", "Pro Max"},
		},
		{
			Text:        "Which features do you find the most impressive?",
			Type:        model.QuestionTypeLimitedChoice,
			Options:     []string{"Display", "Battery", "Camera", "Speed", "Design"},
			ChoiceLimit: 2,
		},
		{
			Text:    "What made you choose this phone?",
			Type:    model.QuestionTypeMultipleChoice,
			Options: []string{"Price", "Features", "Brand", "Design", "Reviews"},
		},
		{
			Text: "What is one thing you would improve or change about this smartphone?",
			Type: model.QuestionTypeText,
		},
		{
			Text: "Attach a photo of the device, if you like.",
			Type: model.QuestionTypeFile,
		},
	},
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lg.Sync()

	stores, err := app.Open(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to open store", zap.Error(err))
	}
	defer stores.Close(ctx)

	editorSvc := service.NewEditorService(stores.SessionRepo, stores.EditorCache, lg)
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.Session.TokenTTL)

	drafts := os.Args[1:]
	if len(drafts) == 0 {
		e, err := editor.FromSurvey(defaultSurvey)
		if err != nil {
			lg.Fatal("build default survey", zap.Error(err))
		}
		seed(ctx, cfg, editorSvc, authSvc, "default", e)
		return
	}
	for _, path := range drafts {
		e, err := cli.LoadDraft(path)
		if err != nil {
			lg.Fatal("load draft", zap.String("path", path), zap.Error(err))
		}
		seed(ctx, cfg, editorSvc, authSvc, path, e)
	}
}

func seed(ctx context.Context, cfg *config.Config, editorSvc *service.EditorService, authSvc *service.AuthService, name string, e *editor.Editor) {
	session, err := editorSvc.Create(ctx)
	if err != nil {
		log.Fatalf("Failed to create session for %s: %v", name, err)
	}
	if _, err := editorSvc.Replace(ctx, session.ID, e); err != nil {
		log.Fatalf("Failed to store %s: %v", name, err)
	}
	token, err := authSvc.IssueEditorToken(session.ID)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}
	fmt.Printf("Seeded %s (%d questions): %s/editor/%s?token=%s\n", name, e.Len(), cfg.PublicURL, session.ID, token)
}
