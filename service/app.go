package service

import (
	"fmt"
	"net/http"

	"autoreview/app/content"
	"autoreview/app/controllers"
	"autoreview/app/portabletext"
	"autoreview/app/repositories"
	"autoreview/app/repositories/sanity"
	"autoreview/app/routes"
	"autoreview/app/search"
	"autoreview/app/services"
	"autoreview/app/site"
	"autoreview/app/views"
	"autoreview/config"

	"go.uber.org/zap"
)

// Backend is the set of repositories the site reads from and writes
// comments to.
type Backend struct {
	Posts    repositories.PostRepository
	News     repositories.NewsRepository
	Cars     repositories.CarRepository
	Comments repositories.CommentRepository
}

// RemoteBackend reads from the hosted content store.
func RemoteBackend(client sanity.Client) Backend {
	return Backend{
		Posts:    sanity.NewPostRepository(client),
		News:     sanity.NewNewsRepository(client),
		Cars:     sanity.NewCarRepository(client),
		Comments: sanity.NewCommentRepository(client),
	}
}

// SnapshotBackend reads from the local snapshot. Comments submitted through
// it wait in the snapshot until the next sync uploads them.
func SnapshotBackend(store *repositories.Store) Backend {
	return Backend{
		Posts:    store.Posts(),
		News:     store.News(),
		Cars:     store.Cars(),
		Comments: store.Comments(),
	}
}

// OpenBackend picks the snapshot when conf runs offline and the content
// store otherwise. The returned func releases the backend.
func OpenBackend(conf *config.Config, logger *zap.Logger) (Backend, func() error, error) {
	if !conf.Offline {
		return RemoteBackend(content.New(conf.ContentStore, logger)), func() error { return nil }, nil
	}
	store, err := repositories.NewStore(conf.Snapshot.Path)
	if err != nil {
		return Backend{}, nil, err
	}
	logger.Info("serving from snapshot", zap.String("path", store.Path()))
	return SnapshotBackend(store), store.Close, nil
}

// Services are the application services built over one backend.
type Services struct {
	Content  *services.ContentService
	Comments *services.CommentService
	Search   *services.SearchService
	Compare  *services.CompareService
}

func NewServices(conf *config.Config, b Backend, logger *zap.Logger) *Services {
	contentService := services.NewContentService(b.Posts, b.News, b.Cars, logger)
	return &Services{
		Content:  contentService,
		Comments: services.NewCommentService(b.Comments, logger),
		Search: services.NewSearchService(contentService, search.Options{
			QuietPeriod: conf.QuietPeriod,
			Limit:       conf.SummaryLimit,
		}, logger),
		Compare: services.NewCompareService(contentService),
	}
}

// NewHandler wires views, controllers and routes over svc.
func NewHandler(conf *config.Config, svc *Services, logger *zap.Logger) (http.Handler, error) {
	templates, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("load views: %w", err)
	}
	s, err := site.Default()
	if err != nil {
		return nil, fmt.Errorf("load site: %w", err)
	}

	base := &controllers.Base{
		Templates: templates,
		Site:      s,
		RichText:  portabletext.Renderer{ProjectID: conf.ProjectID, Dataset: conf.Dataset},
		Logger:    logger,
	}

	return routes.Setup(routes.Controllers{
		Posts:    controllers.NewPostController(base, svc.Content, svc.Comments, svc.Search),
		Comments: controllers.NewCommentController(base, svc.Comments),
		News:     controllers.NewNewsController(base, svc.Content),
		Compare:  controllers.NewCompareController(base, svc.Content, svc.Compare),
		Search:   controllers.NewSearchController(base, svc.Search, conf.AllowedOrigins),
	}, logger, conf.AllowedOrigins), nil
}
