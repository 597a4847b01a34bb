package routes

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"autoreview/app/controllers"
	"autoreview/app/models"
	"autoreview/app/portabletext"
	"autoreview/app/repositories/mock"
	"autoreview/app/search"
	"autoreview/app/services"
	"autoreview/app/site"
	"autoreview/app/views"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testRepos struct {
	posts    *mock.PostRepository
	news     *mock.NewsRepository
	cars     *mock.CarRepository
	comments *mock.CommentRepository
}

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

func setupTestRepos() *testRepos {
	body := json.RawMessage(`[
	  {"_type": "block", "style": "h2", "children": [{"_type": "span", "text": "Performance"}]},
	  {"_type": "block", "children": [{"_type": "span", "text": "760 horsepower of supercharged V8."}]}
	]`)
	ev := models.Category{ID: "cat-ev", Title: "Electric"}

	return &testRepos{
		posts: mock.NewPostRepository(
			&models.Post{ID: "p1", Title: "Ford Mustang GT500", Slug: models.Slug{Current: "ford-mustang-gt500"}, PublishedAt: day(1), Body: body},
			&models.Post{ID: "p2", Title: "Golf GTI", Slug: models.Slug{Current: "golf-gti"}, PublishedAt: day(2)},
			&models.Post{ID: "p3", Title: "Civic Type R", Slug: models.Slug{Current: "civic-type-r"}, PublishedAt: day(3), Body: json.RawMessage(`{"bad": true}`)},
		),
		news: mock.NewNewsRepository(
			&models.NewsItem{ID: "n1", Title: "Charging network grows", Slug: models.Slug{Current: "charging"}, Date: day(1), Categories: []models.Category{ev}},
			&models.NewsItem{ID: "n2", Title: "Battery prices fall", Slug: models.Slug{Current: "battery"}, Date: day(2), Categories: []models.Category{ev}},
		),
		cars: mock.NewCarRepository(
			&models.CarSpec{ID: "car-gt500", Name: "GT500", Price: 79995, Drivetrain: "RWD"},
			&models.CarSpec{ID: "car-golf", Name: "Golf GTI", Price: 32000, Drivetrain: "FWD"},
		),
		comments: mock.NewCommentRepository(
			&models.Comment{ID: "c1", Name: "Ann", Email: "ann@example.com", Comment: "Loved this review", PostName: "Ford Mustang GT500", Approved: true, CreatedAt: day(4)},
			&models.Comment{ID: "c2", Name: "Bob", Comment: "Waiting for moderation", PostName: "Ford Mustang GT500", CreatedAt: day(5)},
		),
	}
}

func setupTestHandler(t *testing.T, repos *testRepos) http.Handler {
	templates, err := views.Load()
	require.NoError(t, err)
	s, err := site.Default()
	require.NoError(t, err)

	logger := zap.NewNop()
	base := &controllers.Base{
		Templates: templates,
		Site:      s,
		RichText:  portabletext.Renderer{ProjectID: "test", Dataset: "production"},
		Logger:    logger,
	}

	contentService := services.NewContentService(repos.posts, repos.news, repos.cars, logger)
	commentService := services.NewCommentService(repos.comments, logger)
	searchService := services.NewSearchService(contentService, search.Options{QuietPeriod: 10 * time.Millisecond}, logger)
	compareService := services.NewCompareService(contentService)

	return Setup(Controllers{
		Posts:    controllers.NewPostController(base, contentService, commentService, searchService),
		Comments: controllers.NewCommentController(base, commentService),
		News:     controllers.NewNewsController(base, contentService),
		Compare:  controllers.NewCompareController(base, contentService, compareService),
		Search:   controllers.NewSearchController(base, searchService, nil),
	}, logger, []string{"*"})
}
