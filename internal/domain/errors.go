package domain

import "errors"

// Таксономия игровых ошибок. Ошибки движения и сайтов доходят до игрока
// как вежливый отказ, сессию они не прерывают. GenerationFailure и
// NarrativeParseFailure гасятся внутри (fallback-заглушка / нулевая дельта)
// и игроку как ошибка не показываются никогда.
var (
	// ErrInvalidMove - цель не в connections текущей локации или невидима.
	ErrInvalidMove = errors.New("invalid move")

	// ErrMalformedExit - exit-токен не разбирается или дельта не является
	// одним из шести единичных направлений.
	ErrMalformedExit = errors.New("malformed exit token")

	// ErrSiteNotFound - сайт отсутствует или еще не открыт (discovered=false).
	ErrSiteNotFound = errors.New("site not found")

	// ErrNotInsideSite - действие требует нахождения внутри сайта.
	ErrNotInsideSite = errors.New("not inside a site")

	// ErrNotInTeam - NPC не состоит в команде игрока.
	ErrNotInTeam = errors.New("npc not in team")

	// ErrNotRecruitable - NPC не active или находится не рядом с игроком.
	ErrNotRecruitable = errors.New("npc not recruitable")

	// ErrTeamFull - в команде уже 4 NPC.
	ErrTeamFull = errors.New("team is full")

	// ErrGenerationFailure - внешний генератор вернул непригодный контент.
	// Наружу не выходит: ChunkStore подставляет fallback-заглушку.
	ErrGenerationFailure = errors.New("world generation failure")

	// ErrNarrativeParseFailure - ответ нарративного вызова не соответствует
	// ожидаемому формату DESCRIPTION/STATS. Применяется нулевая дельта.
	ErrNarrativeParseFailure = errors.New("narrative response parse failure")
)
