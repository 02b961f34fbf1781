package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/voxagenda/voxagenda/agent/booking"
	contractx "github.com/voxagenda/voxagenda/agent/contract"
	"github.com/voxagenda/voxagenda/agent/domain"
	"github.com/voxagenda/voxagenda/agent/leads"
	"github.com/voxagenda/voxagenda/agent/schedule"
)

const spokenSlotLimit = 4

// Results are spoken-style Spanish strings: they go back to the model as
// conversational context, never as structured payloads, and every failure
// path degrades to one of them so the live call keeps going.
const (
	msgFallback     = "No he podido completar esa operación, disculpa. ¿Puedes repetirme los datos?"
	msgStoreDown    = "Ahora mismo no puedo acceder a la agenda, disculpa las molestias. ¿Puedes llamar en unos minutos?"
	msgSlotTaken    = "Lo siento, esa hora ya está ocupada. ¿Quieres que mire otro hueco?"
	msgNoSlots      = "Ese día no queda ningún hueco libre. ¿Miramos otro día?"
	msgLeadNotFound = "No encuentro ninguna ficha con esos datos de contacto."
)

// Router maps tool calls requested by the model onto the ledger and the
// directory. It carries no business logic beyond argument shaping.
type Router struct {
	ledger    *booking.Ledger
	directory *leads.Directory
	loc       *time.Location
}

func NewRouter(ledger *booking.Ledger, directory *leads.Directory, loc *time.Location) (*Router, error) {
	if ledger == nil {
		return nil, errors.New("booking ledger is required")
	}
	if directory == nil {
		return nil, errors.New("lead directory is required")
	}
	if loc == nil {
		loc = time.Local
	}
	return &Router{ledger: ledger, directory: directory, loc: loc}, nil
}

// Dispatch runs one named tool call and returns the spoken result. It
// never returns an error: unknown tools and malformed arguments come back
// as graceful fallback strings.
func (r *Router) Dispatch(ctx context.Context, callID, name, rawArgs string) string {
	switch name {
	case ToolCheckAvailability:
		return r.checkAvailability(ctx, rawArgs)
	case ToolBookAppointment:
		return r.bookAppointment(ctx, callID, rawArgs)
	case ToolUpdateLeadStatus:
		return r.updateLeadStatus(ctx, rawArgs)
	case ToolCreateNote:
		return r.createNote(ctx, rawArgs)
	default:
		log.Warn().Str("tool", name).Str("call_id", callID).Msg("unknown tool requested")
		return fmt.Sprintf("La función %s no está disponible.", name)
	}
}

type checkAvailabilityArgs struct {
	Fecha    string `json:"fecha"`
	Duracion int    `json:"duracion_minutos"`
}

func (r *Router) checkAvailability(ctx context.Context, rawArgs string) string {
	var args checkAvailabilityArgs
	if err := decodeArgs(rawArgs, &args); err != nil {
		return msgFallback
	}
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(args.Fecha), r.loc)
	if err != nil {
		return "Necesito la fecha en formato año-mes-día para consultar la agenda."
	}

	slots, err := r.ledger.FreeSlots(ctx, day, time.Duration(args.Duracion)*time.Minute)
	if err != nil {
		log.Error().Err(err).Str("tool", ToolCheckAvailability).Msg("availability lookup failed")
		return msgStoreDown
	}
	if len(slots) == 0 {
		return msgNoSlots
	}

	spoken := schedule.Abridge(slots, spokenSlotLimit)
	times := make([]string, len(spoken))
	for i, s := range spoken {
		times[i] = s.Format("15:04")
	}
	return fmt.Sprintf("El %s hay hueco a las %s.", spokenDate(day), joinSpoken(times))
}

type bookAppointmentArgs struct {
	Fecha      string `json:"fecha"`
	Hora       string `json:"hora"`
	Nombre     string `json:"nombre"`
	Telefono   string `json:"telefono"`
	Email      string `json:"email"`
	Motivo     string `json:"motivo"`
	Duracion   int    `json:"duracion_minutos"`
	Presencial bool   `json:"presencial"`
}

func (r *Router) bookAppointment(ctx context.Context, callID, rawArgs string) string {
	var args bookAppointmentArgs
	if err := decodeArgs(rawArgs, &args); err != nil {
		return msgFallback
	}
	if strings.TrimSpace(args.Telefono) == "" && strings.TrimSpace(args.Email) == "" {
		return "Para reservar necesito un teléfono o un correo de contacto."
	}
	start, err := time.ParseInLocation("2006-01-02 15:04",
		strings.TrimSpace(args.Fecha)+" "+strings.TrimSpace(args.Hora), r.loc)
	if err != nil {
		return "Necesito el día y la hora exactos de la cita para reservarla."
	}

	appt, err := r.ledger.Book(ctx, booking.BookRequest{
		Name:     args.Nombre,
		Phone:    args.Telefono,
		Email:    args.Email,
		Title:    args.Motivo,
		Start:    start,
		Duration: time.Duration(args.Duracion) * time.Minute,
		CallID:   callID,
		Virtual:  !args.Presencial,
	})
	switch {
	case errors.Is(err, contractx.ErrSlotTaken):
		return msgSlotTaken
	case errors.Is(err, contractx.ErrValidation):
		return msgFallback
	case err != nil:
		log.Error().Err(err).Str("tool", ToolBookAppointment).Str("call_id", callID).Msg("booking failed")
		return msgStoreDown
	}

	return fmt.Sprintf("Cita reservada el %s a las %s a nombre de %s.",
		spokenDate(appt.StartsAt), appt.StartsAt.Format("15:04"), args.Nombre)
}

type updateLeadStatusArgs struct {
	Telefono      string `json:"telefono"`
	Email         string `json:"email"`
	Estado        string `json:"estado"`
	Temperatura   string `json:"temperatura"`
	MotivoPerdida string `json:"motivo_perdida"`
}

func (r *Router) updateLeadStatus(ctx context.Context, rawArgs string) string {
	var args updateLeadStatusArgs
	if err := decodeArgs(rawArgs, &args); err != nil {
		return msgFallback
	}
	if strings.TrimSpace(args.Telefono) == "" && strings.TrimSpace(args.Email) == "" {
		return "Necesito el teléfono o el correo del contacto para actualizar su estado."
	}

	_, err := r.directory.UpdateStatus(ctx, args.Telefono, args.Email,
		domain.LeadStatus(strings.TrimSpace(args.Estado)),
		domain.Temperature(strings.TrimSpace(args.Temperatura)),
		strings.TrimSpace(args.MotivoPerdida))
	switch {
	case errors.Is(err, contractx.ErrLeadNotFound):
		return msgLeadNotFound
	case errors.Is(err, contractx.ErrValidation):
		return msgFallback
	case err != nil:
		log.Error().Err(err).Str("tool", ToolUpdateLeadStatus).Msg("status update failed")
		return msgStoreDown
	}
	return "Estado del contacto actualizado."
}

type createNoteArgs struct {
	Nota      string `json:"nota"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"`
	Nombre    string `json:"nombre"`
	Categoria string `json:"categoria"`
}

func (r *Router) createNote(ctx context.Context, rawArgs string) string {
	var args createNoteArgs
	if err := decodeArgs(rawArgs, &args); err != nil {
		return msgFallback
	}
	if strings.TrimSpace(args.Telefono) == "" && strings.TrimSpace(args.Email) == "" {
		return "Necesito un teléfono o un correo para guardar la nota en la ficha."
	}

	_, err := r.directory.AppendNote(ctx, args.Telefono, args.Email, args.Nombre, args.Nota, args.Categoria)
	switch {
	case errors.Is(err, contractx.ErrValidation):
		return msgFallback
	case err != nil:
		log.Error().Err(err).Str("tool", ToolCreateNote).Msg("note failed")
		return msgStoreDown
	}
	return "Nota guardada en la ficha del contacto."
}

func decodeArgs(rawArgs string, target any) error {
	rawArgs = strings.TrimSpace(rawArgs)
	if rawArgs == "" {
		rawArgs = "{}"
	}
	if err := json.Unmarshal([]byte(rawArgs), target); err != nil {
		log.Warn().Err(err).Msg("malformed tool arguments")
		return fmt.Errorf("%w: decode tool arguments: %v", contractx.ErrValidation, err)
	}
	return nil
}

var spanishMonths = [...]string{"", "enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

func spokenDate(t time.Time) string {
	return fmt.Sprintf("%d de %s", t.Day(), spanishMonths[t.Month()])
}

func joinSpoken(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " y " + parts[len(parts)-1]
	}
}
