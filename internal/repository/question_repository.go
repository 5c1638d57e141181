package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/menkyoquiz/menkyo-backend/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, question_text, answer, explanation, category, image_url, is_premium`

func scanQuestion(row interface{ Scan(...any) error }, q *model.Question) error {
	return row.Scan(&q.ID, &q.Text, &q.Answer, &q.Explanation, &q.Category, &q.ImageURL, &q.IsPremium)
}

// ListByCategory retrieves all questions in a category, preserving ID
// order. Ordering is stable so set slicing stays deterministic.
func (r *QuestionRepository) ListByCategory(ctx context.Context, category string) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE category = $1 ORDER BY id`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListPaginated retrieves questions with pagination, optional category
// filter and text search.
func (r *QuestionRepository) ListPaginated(ctx context.Context, category, search string, limit, offset int) ([]model.Question, int, error) {
	where := ``
	var args []interface{}
	argIdx := 1

	if category != "" {
		where = ` WHERE category = $1`
		args = append(args, category)
		argIdx++
	}
	if search != "" {
		if where == "" {
			where = ` WHERE question_text ILIKE $` + strconv.Itoa(argIdx)
		} else {
			where += ` AND question_text ILIKE $` + strconv.Itoa(argIdx)
		}
		args = append(args, "%"+search+"%")
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + questionColumns + ` FROM questions` + where +
		` ORDER BY id LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, 0, err
		}
		questions = append(questions, q)
	}
	return questions, total, rows.Err()
}

// GetByID retrieves a single question.
func (r *QuestionRepository) GetByID(ctx context.Context, id int) (*model.Question, error) {
	q := &model.Question{}
	row := r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	if err := scanQuestion(row, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (question_text, answer, explanation, category, image_url, is_premium)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		q.Text, q.Answer, q.Explanation, q.Category, q.ImageURL, q.IsPremium,
	).Scan(&q.ID)
}

// Update modifies an existing question.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET question_text = $1, answer = $2, explanation = $3, category = $4, image_url = $5, is_premium = $6, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $7`,
		q.Text, q.Answer, q.Explanation, q.Category, q.ImageURL, q.IsPremium, q.ID,
	)
	return err
}

// Delete removes a question by ID.
func (r *QuestionRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return err
}

// BulkInsert inserts a batch of questions inside a transaction, assigning
// IDs back onto the input slice.
func (r *QuestionRepository) BulkInsert(ctx context.Context, questions []model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range questions {
		q := &questions[i]
		err := tx.QueryRow(ctx,
			`INSERT INTO questions (question_text, answer, explanation, category, image_url, is_premium)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			q.Text, q.Answer, q.Explanation, q.Category, q.ImageURL, q.IsPremium,
		).Scan(&q.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// CountByCategory returns question counts grouped by category, ordered by
// category name.
func (r *QuestionRepository) CountByCategory(ctx context.Context) ([]model.CategoryCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category, COUNT(*) FROM questions GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.CategoryCount
	for rows.Next() {
		var c model.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
