package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed     = errors.New("validation failed")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrAmountNotPositive    = errors.New("amount must be positive")
	ErrSponsorNameRequired  = errors.New("sponsor or fan name is required")
	ErrNoOrganization       = errors.New("caller has no valid organization")
	ErrMissionCompleted     = errors.New("mission already completed")
	ErrChampionshipNoPool   = errors.New("championship xp pool must be non-negative")
	ErrPlacementInvalid     = errors.New("placement entry must carry a player id or a manual name")
	ErrPlacementRankInvalid = errors.New("placement rank must be a positive integer")

	// Идемпотентность финализации: повторный вызов (в том числе ретрай
	// клиента после потерянного ответа) неотличим от "уже финализировано
	// кем-то другим" — оба получают эту ошибку.
	ErrChampionshipAlreadyFinalized = errors.New("championship has already been finalized")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrFinalizeForbidden      = errors.New("caller is not allowed to finalize this championship")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound         = errors.New("user not found")
	ErrFanNotFound          = errors.New("fan user not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrChampionshipNotFound = errors.New("championship not found")
	ErrRaffleNotFound       = errors.New("raffle not found")
	ErrMissionNotFound      = errors.New("mission not found")

	// Транзиентная ошибка: хранилище исчерпало лимит повторов из-за
	// конфликтов — запрос можно безопасно повторить снаружи.
	ErrStoreContention = errors.New("storage is under contention, retry the request")
)
