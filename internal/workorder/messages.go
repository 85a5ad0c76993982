// Package workorder drives the work-order views: the admin list with full
// CRUD and the operator list with the start and finish transitions.
package workorder

import "errors"

// User-visible messages.
const (
	MsgAdminLoadFailed    = "Error al cargar las órdenes de trabajo."
	MsgOperatorLoadFailed = "Error al cargar las órdenes de trabajo"
	MsgCreated            = "OT creada exitosamente"
	MsgCreateFailed       = "Error al crear la OT"
	MsgUpdated            = "OT actualizada exitosamente"
	MsgUpdateFailed       = "Error al actualizar la OT"
	MsgDeleted            = "OT eliminada exitosamente"
	MsgDeleteFailed       = "Error al eliminar la OT"
	MsgInvalidForm        = "Formulario incompleto: complete los campos obligatorios."
	MsgNoUser             = "No se pudo determinar el usuario logueado."
	MsgStartedFmt         = "La OT %s ha sido marcada como En Progreso."
	MsgStartFailed        = "Error al iniciar la tarea."
	MsgFinishedFmt        = "La OT %s ha sido marcada como Finalizada."
	MsgFinishFailed       = "Error al finalizar la tarea."
	MsgNoCompletionTime   = "Tarea incompleta: no se ingresó el tiempo de finalización."
	MsgBadCompletionTime  = "El tiempo de finalización debe ser un número entero de minutos."
)

var (
	ErrInvalidForm           = errors.New("invalid work order form")
	ErrNoUser                = errors.New("no signed-in user")
	ErrNoCompletionTime      = errors.New("no completion time entered")
	ErrInvalidCompletionTime = errors.New("completion time is not a whole number of minutes")
	ErrNotFound              = errors.New("work order not in list")
)
