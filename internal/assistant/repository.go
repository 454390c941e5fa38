package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	CreateConversation(ctx context.Context, conv *Conversation) error
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]*Conversation, error)
	UpdateConversation(ctx context.Context, conv *Conversation) error
	CreateMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, conversationID string) ([]*Message, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const conversationColumns = `id, user_id, pitch_id, status, title, message_count, last_message_at, resolved_at, created_at`

func scanConversation(row pgx.Row) (*Conversation, error) {
	var conv Conversation
	err := row.Scan(
		&conv.ID, &conv.UserID, &conv.PitchID, &conv.Status, &conv.Title,
		&conv.MessageCount, &conv.LastMessageAt, &conv.ResolvedAt, &conv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan conversation failed: %w", err)
	}
	return &conv, nil
}

func (r *pgxRepository) CreateConversation(ctx context.Context, conv *Conversation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.assistant_conversations").
		Columns("user_id", "pitch_id", "status", "title").
		Values(conv.UserID, conv.PitchID, conv.Status, conv.Title).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create conversation query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&conv.ID, &conv.CreatedAt)
}

func (r *pgxRepository) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(conversationColumns).
		From("public.assistant_conversations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get conversation query failed: %w", err)
	}
	return scanConversation(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) ListConversations(ctx context.Context, userID string) ([]*Conversation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(conversationColumns).
		From("public.assistant_conversations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("last_message_at DESC NULLS LAST", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list conversations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversations failed: %w", err)
	}
	defer rows.Close()

	var conversations []*Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}
	return conversations, nil
}

func (r *pgxRepository) UpdateConversation(ctx context.Context, conv *Conversation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.assistant_conversations").
		Set("status", conv.Status).
		Set("message_count", conv.MessageCount).
		Set("last_message_at", conv.LastMessageAt).
		Set("resolved_at", conv.ResolvedAt).
		Where(squirrel.Eq{"id": conv.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update conversation query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update conversation failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) CreateMessage(ctx context.Context, msg *Message) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.assistant_messages").
		Columns("conversation_id", "role", "content", "metadata").
		Values(msg.ConversationID, msg.Role, msg.Content, msg.Metadata).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create message query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *pgxRepository) ListMessages(ctx context.Context, conversationID string) ([]*Message, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id, conversation_id, role, content, metadata, created_at").
		From("public.assistant_messages").
		Where(squirrel.Eq{"conversation_id": conversationID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list messages query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.Metadata, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message failed: %w", err)
		}
		messages = append(messages, &msg)
	}
	return messages, nil
}
