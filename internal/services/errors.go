package services

import (
	apierrors "github.com/yukikurage/event-management-api/internal/errors"
)

var (
	// Auth and users
	ErrEmailTaken              = apierrors.New(apierrors.KindConflict, "email já cadastrado")
	ErrRegistrationNumberTaken = apierrors.New(apierrors.KindConflict, "matrícula já cadastrada")
	ErrInvalidCredentials      = apierrors.New(apierrors.KindUnauthorized, "email ou senha inválidos")
	ErrPasswordTooShort        = apierrors.New(apierrors.KindValidation, "a senha deve ter pelo menos 6 caracteres")
	ErrNameRequired            = apierrors.New(apierrors.KindValidation, "nome é obrigatório")
	ErrEmailRequired           = apierrors.New(apierrors.KindValidation, "email é obrigatório")
	ErrInvalidRole             = apierrors.New(apierrors.KindValidation, "papel inválido")
	ErrUserNotFound            = apierrors.New(apierrors.KindNotFound, "usuário não encontrado")
	ErrProfileForbidden        = apierrors.New(apierrors.KindForbidden, "você só pode alterar o próprio perfil")
	ErrInvalidToken            = apierrors.New(apierrors.KindForbidden, "token inválido ou expirado")
	ErrTokenUserMissing        = apierrors.New(apierrors.KindUnauthorized, "usuário do token não existe")

	// Events
	ErrEventNotFound          = apierrors.New(apierrors.KindNotFound, "evento não encontrado")
	ErrNotEventOrganizer      = apierrors.New(apierrors.KindForbidden, "apenas o organizador do evento pode realizar esta ação")
	ErrEventNameRequired      = apierrors.New(apierrors.KindValidation, "nome do evento é obrigatório")
	ErrInvalidDateRange       = apierrors.New(apierrors.KindValidation, "a data de término deve ser posterior à data de início")
	ErrInvalidCapacity        = apierrors.New(apierrors.KindValidation, "a capacidade deve ser maior que zero")
	ErrInvalidEventStatus     = apierrors.New(apierrors.KindValidation, "status de evento inválido")
	ErrPastEventEdit          = apierrors.New(apierrors.KindInvalidState, "não é possível editar eventos passados")
	ErrPastEventDelete        = apierrors.New(apierrors.KindInvalidState, "não é possível excluir eventos passados")
	ErrInvalidTransition      = apierrors.New(apierrors.KindInvalidState, "transição de status não permitida")
	ErrCapacityBelowConfirmed = apierrors.New(apierrors.KindInvalidState, "a capacidade não pode ser menor que o número de inscritos confirmados")

	// Activities and files
	ErrActivityNotFound     = apierrors.New(apierrors.KindNotFound, "atividade não encontrada")
	ErrActivityNameRequired = apierrors.New(apierrors.KindValidation, "nome da atividade é obrigatório")
	ErrFileNotFound         = apierrors.New(apierrors.KindNotFound, "arquivo não encontrado")
	ErrFileTooLarge         = apierrors.New(apierrors.KindValidation, "o arquivo excede o limite de 10MB")
	ErrFileRequired         = apierrors.New(apierrors.KindValidation, "nenhum arquivo enviado")

	// Registrations
	ErrEventNotOpen             = apierrors.New(apierrors.KindInvalidState, "evento não está aberto para inscrições")
	ErrEventEnded               = apierrors.New(apierrors.KindInvalidState, "evento já foi encerrado")
	ErrAlreadyRegistered        = apierrors.New(apierrors.KindConflict, "usuário já inscrito neste evento")
	ErrEventFull                = apierrors.New(apierrors.KindCapacityExceeded, "evento lotado")
	ErrEventCompleted           = apierrors.New(apierrors.KindInvalidState, "não é possível cancelar inscrição em evento concluído")
	ErrRegistrationNotFound     = apierrors.New(apierrors.KindNotFound, "inscrição não encontrada")
	ErrCertificateAlreadyIssued = apierrors.New(apierrors.KindInvalidState, "não é possível cancelar inscrição com certificado emitido")
	ErrInvalidRegistrationState = apierrors.New(apierrors.KindValidation, "status de inscrição inválido")

	// Certificates
	ErrCertificateNotFound  = apierrors.New(apierrors.KindNotFound, "certificado não encontrado")
	ErrCertificateExists    = apierrors.New(apierrors.KindConflict, "certificado já emitido para este participante")
	ErrNoParticipants       = apierrors.New(apierrors.KindInvalidState, "nenhum participante inscrito no evento")
	ErrCertificateForbidden = apierrors.New(apierrors.KindForbidden, "acesso negado a este certificado")
	ErrRegistrationInactive = apierrors.New(apierrors.KindInvalidState, "inscrição cancelada não recebe certificado")
)
