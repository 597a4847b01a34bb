// Package sanity implements the repositories against the hosted content store.
package sanity

import (
	"context"
	"errors"
	"fmt"

	"autoreview/app/content"
	"autoreview/app/models"
	"autoreview/app/repositories"
)

// Client is the part of content.Client the repositories use.
type Client interface {
	Fetch(ctx context.Context, q content.Query, params content.Params, out interface{}) error
	Create(ctx context.Context, doc content.Document) (string, error)
}

const (
	postProjection = `_id, title, slug, excerpt, authorName, authorImage, mainImageUrl, publishedAt, body[]`
	// The single post view resolves internal link targets to their slug.
	postDetailProjection = `_id, title, slug, excerpt, authorName, authorImage, mainImageUrl, publishedAt,
    body[]{..., markDefs[]{..., _type == "internalLink" => {"slug": @.reference->slug}}}`
	newsProjection = `_id, title, slug, excerpt, content, date, author,
    authorImage{asset->{url}}, mainImage{asset->{_ref, url}}, categories[]->{_id, title}`
	relatedProjection = `_id, title, slug, date, mainImage{asset->{url}}`
	carProjection     = `_id, name, engine, transmission, drivetrain, dimensions, performance, price,
    image{asset->{url}}`
	commentProjection = `_id, name, email, comment, postName, approved, createdAt`
)

func notFound(err error) error {
	if errors.Is(err, content.ErrNotFound) {
		return repositories.ErrNotFound
	}
	return err
}

type PostRepository struct {
	client Client
}

func NewPostRepository(client Client) *PostRepository {
	return &PostRepository{client: client}
}

func (r *PostRepository) List(ctx context.Context, order repositories.Order, limit int) ([]*models.Post, error) {
	q := content.Query{
		Type:       "post",
		OrderBy:    "publishedAt",
		Desc:       order == repositories.NewestFirst,
		End:        limit,
		Projection: postProjection,
	}
	var posts []*models.Post
	if err := r.client.Fetch(ctx, q, nil, &posts); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	q := content.Query{
		Type:       "post",
		Where:      []string{"slug.current == $slug"},
		Single:     true,
		Projection: postDetailProjection,
	}
	var post models.Post
	if err := r.client.Fetch(ctx, q, content.Params{"slug": slug}, &post); err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

type NewsRepository struct {
	client Client
}

func NewNewsRepository(client Client) *NewsRepository {
	return &NewsRepository{client: client}
}

func (r *NewsRepository) List(ctx context.Context, limit int) ([]*models.NewsItem, error) {
	q := content.Query{
		Type:       "newsAndUpdates",
		OrderBy:    "date",
		Desc:       true,
		End:        limit,
		Projection: newsProjection,
	}
	var items []*models.NewsItem
	if err := r.client.Fetch(ctx, q, nil, &items); err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return items, nil
}

func (r *NewsRepository) GetBySlug(ctx context.Context, slug string) (*models.NewsItem, error) {
	q := content.Query{
		Type:       "newsAndUpdates",
		Where:      []string{"slug.current == $slug"},
		Single:     true,
		Projection: newsProjection,
	}
	var item models.NewsItem
	if err := r.client.Fetch(ctx, q, content.Params{"slug": slug}, &item); err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *NewsRepository) Related(ctx context.Context, item *models.NewsItem, limit int) ([]*models.NewsItem, error) {
	categories := item.CategoryIDs()
	if len(categories) == 0 {
		return nil, nil
	}
	q := content.Query{
		Type:       "newsAndUpdates",
		Where:      []string{"references($categories)", "_id != $currentId"},
		OrderBy:    "date",
		Desc:       true,
		End:        limit,
		Projection: relatedProjection,
	}
	var items []*models.NewsItem
	params := content.Params{"categories": categories, "currentId": item.ID}
	if err := r.client.Fetch(ctx, q, params, &items); err != nil {
		return nil, fmt.Errorf("related news for %s: %w", item.ID, err)
	}
	return items, nil
}

type CarRepository struct {
	client Client
}

func NewCarRepository(client Client) *CarRepository {
	return &CarRepository{client: client}
}

func (r *CarRepository) List(ctx context.Context) ([]*models.CarSpec, error) {
	q := content.Query{Type: "carSpecifications", Projection: carProjection}
	var cars []*models.CarSpec
	if err := r.client.Fetch(ctx, q, nil, &cars); err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	return cars, nil
}

func (r *CarRepository) GetByID(ctx context.Context, id string) (*models.CarSpec, error) {
	q := content.Query{
		Type:       "carSpecifications",
		Where:      []string{"_id == $id"},
		Single:     true,
		Projection: carProjection,
	}
	var car models.CarSpec
	if err := r.client.Fetch(ctx, q, content.Params{"id": id}, &car); err != nil {
		return nil, notFound(err)
	}
	return &car, nil
}

type CommentRepository struct {
	client Client
}

func NewCommentRepository(client Client) *CommentRepository {
	return &CommentRepository{client: client}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	id, err := r.client.Create(ctx, content.Document{
		"_type":     "comment",
		"name":      comment.Name,
		"email":     comment.Email,
		"comment":   comment.Comment,
		"postName":  comment.PostName,
		"approved":  comment.Approved,
		"createdAt": comment.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	comment.ID = id
	return nil
}

func (r *CommentRepository) ListApproved(ctx context.Context, slug string) ([]*models.Comment, error) {
	q := content.Query{
		Type:       "comment",
		Where:      []string{"approved == true"},
		MatchField: "postName",
		MatchParam: "searchTitle",
		OrderBy:    "createdAt",
		Desc:       true,
		Projection: commentProjection,
	}
	var comments []*models.Comment
	if err := r.client.Fetch(ctx, q, content.Params{"searchTitle": models.SearchTitle(slug)}, &comments); err != nil {
		return nil, fmt.Errorf("approved comments for %s: %w", slug, err)
	}
	return comments, nil
}

// AllApproved returns every approved comment, newest first.
func (r *CommentRepository) AllApproved(ctx context.Context) ([]*models.Comment, error) {
	q := content.Query{
		Type:       "comment",
		Where:      []string{"approved == true"},
		OrderBy:    "createdAt",
		Desc:       true,
		Projection: commentProjection,
	}
	var comments []*models.Comment
	if err := r.client.Fetch(ctx, q, nil, &comments); err != nil {
		return nil, fmt.Errorf("approved comments: %w", err)
	}
	return comments, nil
}

var (
	_ repositories.PostRepository    = (*PostRepository)(nil)
	_ repositories.NewsRepository    = (*NewsRepository)(nil)
	_ repositories.CarRepository     = (*CarRepository)(nil)
	_ repositories.CommentRepository = (*CommentRepository)(nil)
)
