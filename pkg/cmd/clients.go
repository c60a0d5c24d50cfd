package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/reelay/reelay/pkg/clients/assistant"
	"github.com/reelay/reelay/pkg/clients/blotato"
	"github.com/reelay/reelay/pkg/clients/kie"
	"github.com/reelay/reelay/pkg/clients/openai"
	"github.com/reelay/reelay/pkg/event_bus"
	"github.com/reelay/reelay/pkg/ideas"
	"github.com/reelay/reelay/pkg/persistence"
	"github.com/reelay/reelay/pkg/secrets"
	"github.com/reelay/reelay/pkg/workflow"
)

// Credential service names in the secrets store.
const (
	ServiceOpenAI     = "openai"
	ServiceKie        = "kie"
	ServiceBlotato    = "blotato"
	ServiceOpenRouter = "openrouter"
)

// blotatoPublisher adapts the Blotato client to the pipeline's
// publisher contract.
type blotatoPublisher struct {
	client *blotato.Client
}

func (p blotatoPublisher) UploadMedia(ctx context.Context, mediaURL string) (string, error) {
	return p.client.UploadMedia(ctx, mediaURL)
}

func (p blotatoPublisher) CreatePost(ctx context.Context, post workflow.PostRequest) (string, error) {
	return p.client.CreatePost(ctx, blotato.PostRequest{
		Platform:  post.Platform,
		AccountID: post.AccountID,
		Content:   post.Content,
		MediaURL:  post.MediaURL,
		Title:     post.Title,
	})
}

// NewSecretsStore opens the encrypted credential store. The master
// key comes from REELAY_MASTER_KEY when set; otherwise a key file is
// created next to the data.
func NewSecretsStore(store persistence.Persistence, keyFile string) (*secrets.Store, error) {
	return secrets.NewStore(store.Credentials(), os.Getenv("REELAY_MASTER_KEY"), keyFile)
}

// ResolveCredential reads a service API key from the secrets store,
// falling back to the environment variable when the store has no
// entry for it.
func ResolveCredential(ctx context.Context, store *secrets.Store, service, envVar string) string {
	if store != nil {
		key, err := store.Get(ctx, service)
		if err == nil && key != "" {
			return key
		}
	}

	return os.Getenv(envVar)
}

// NewVideoCreationRunner wires the full pipeline: idea source, script
// generation, video generation, and publishing.
func NewVideoCreationRunner(
	ctx context.Context,
	store persistence.Persistence,
	secretsStore *secrets.Store,
	bus event_bus.EventPublisher,
	logger *slog.Logger,
) *workflow.VideoCreation {
	openaiKey := ResolveCredential(ctx, secretsStore, ServiceOpenAI, "OPENAI_API_KEY")
	kieKey := ResolveCredential(ctx, secretsStore, ServiceKie, "KIE_API_KEY")
	blotatoKey := ResolveCredential(ctx, secretsStore, ServiceBlotato, "BLOTATO_API_KEY")

	return workflow.NewVideoCreation(
		store,
		ideas.NewSource(ideas.DefaultCatalog()),
		openai.NewGenerator(openaiKey),
		kie.NewClient(kieKey),
		blotatoPublisher{client: blotato.NewClient(blotatoKey)},
		bus,
		logger,
	)
}

// NewExecutor builds the workflow executor with every runner kind
// registered.
func NewExecutor(
	ctx context.Context,
	store persistence.Persistence,
	secretsStore *secrets.Store,
	bus event_bus.EventPublisher,
	logger *slog.Logger,
) *workflow.Executor {
	return workflow.NewExecutor(store, logger,
		NewVideoCreationRunner(ctx, store, secretsStore, bus, logger),
		workflow.Engagement{},
		workflow.Analytics{},
		workflow.Custom{},
	)
}

// NewAssistant builds the chat completion backend for the dashboard
// assistant.
func NewAssistant(ctx context.Context, secretsStore *secrets.Store, model string) *assistant.Client {
	key := ResolveCredential(ctx, secretsStore, ServiceOpenRouter, "OPENROUTER_API_KEY")
	if model == "" {
		model = assistant.DefaultModel
	}

	return assistant.NewClient(key, model)
}
