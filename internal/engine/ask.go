package engine

import (
	"context"
	"fmt"
	"strings"
)

// AnswerQuestion - вопрос "духу мира": RAG-поиск по лору плюс текущее
// положение игрока как контекст. Пустой индекс лора не мешает ответу,
// модель просто отвечает общо.
func (s *GameService) AnswerQuestion(ctx context.Context, question string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.GetPlayer()
	if err != nil {
		return "", err
	}

	snippets, err := s.lore.Query(ctx, question, 3)
	if err != nil {
		return "", fmt.Errorf("lore lookup: %w", err)
	}

	var loreBlock string
	if len(snippets) > 0 {
		loreBlock = "What the chronicles say:\n" + strings.Join(snippets, "\n---\n")
	} else {
		loreBlock = "The chronicles are silent on this matter."
	}

	systemPrompt := fmt.Sprintf(`You are the Spirit of the World, an ancient voice answering a traveler's question.
%s

The traveler currently stands in %s at chunk (%d,%d).
Answer in 2-4 sentences, in character, grounded in the chronicles above when they are relevant.`,
		loreBlock, p.LocationName, p.Q, p.R)

	answer, err := s.chat.Chat(ctx, systemPrompt, question)
	if err != nil {
		// Молчание модели не должно валить запрос: дух просто не в духе.
		s.log.WithError(err).Warn("Дух мира не ответил")
		return "The Spirit of the World does not answer. Perhaps ask again later.", nil
	}
	return strings.TrimSpace(answer), nil
}
