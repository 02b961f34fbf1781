package tool

import (
	"github.com/openai/openai-go/v2"
)

// The closed set of capabilities the model may invoke. Adding one is a
// compile-time change: the catalog entry and the Dispatch arm go together.
const (
	ToolCheckAvailability = "check_availability"
	ToolBookAppointment   = "book_appointment"
	ToolUpdateLeadStatus  = "update_lead_status"
	ToolCreateNote        = "create_note"
)

func Names() []string {
	return []string{ToolCheckAvailability, ToolBookAppointment, ToolUpdateLeadStatus, ToolCreateNote}
}

// Catalog declares the tool schemas sent to the model on every first call
// of a turn. Argument names are the Spanish field names the assistant's
// prompt teaches the model to use.
func Catalog() []openai.ChatCompletionToolUnionParam {
	return []openai.ChatCompletionToolUnionParam{
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        ToolCheckAvailability,
			Description: openai.String("Consulta los huecos libres de la agenda para un día concreto."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"fecha": map[string]any{
						"type":        "string",
						"description": "Día a consultar, formato YYYY-MM-DD",
					},
					"duracion_minutos": map[string]any{
						"type":        "integer",
						"description": "Duración deseada de la cita en minutos; 30 si no se indica",
					},
				},
				"required": []string{"fecha"},
			},
		}),
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        ToolBookAppointment,
			Description: openai.String("Reserva una cita en la agenda para la persona que llama."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"fecha": map[string]any{
						"type":        "string",
						"description": "Día de la cita, formato YYYY-MM-DD",
					},
					"hora": map[string]any{
						"type":        "string",
						"description": "Hora de inicio, formato HH:MM",
					},
					"nombre": map[string]any{
						"type":        "string",
						"description": "Nombre completo de la persona",
					},
					"telefono": map[string]any{
						"type":        "string",
						"description": "Teléfono de contacto",
					},
					"email": map[string]any{
						"type":        "string",
						"description": "Correo electrónico de contacto",
					},
					"motivo": map[string]any{
						"type":        "string",
						"description": "Motivo o título de la cita",
					},
					"duracion_minutos": map[string]any{
						"type":        "integer",
						"description": "Duración en minutos; 30 si no se indica",
					},
					"presencial": map[string]any{
						"type":        "boolean",
						"description": "true si la cita es presencial, false si es por videollamada",
					},
				},
				"required": []string{"fecha", "hora", "nombre"},
			},
		}),
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        ToolUpdateLeadStatus,
			Description: openai.String("Actualiza el estado del contacto en el embudo de ventas."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"telefono": map[string]any{
						"type":        "string",
						"description": "Teléfono del contacto",
					},
					"email": map[string]any{
						"type":        "string",
						"description": "Correo del contacto",
					},
					"estado": map[string]any{
						"type": "string",
						"enum": []string{"new", "contacted", "qualified", "proposal", "negotiating", "won", "lost"},
					},
					"temperatura": map[string]any{
						"type": "string",
						"enum": []string{"cold", "warm", "hot"},
					},
					"motivo_perdida": map[string]any{
						"type":        "string",
						"description": "Motivo de la pérdida, solo cuando estado=lost",
					},
				},
				"required": []string{"estado"},
			},
		}),
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        ToolCreateNote,
			Description: openai.String("Guarda una nota sobre la persona que llama, creando su ficha si no existe."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"nota": map[string]any{
						"type":        "string",
						"description": "Texto de la nota",
					},
					"telefono": map[string]any{
						"type":        "string",
						"description": "Teléfono del contacto",
					},
					"email": map[string]any{
						"type":        "string",
						"description": "Correo del contacto",
					},
					"nombre": map[string]any{
						"type":        "string",
						"description": "Nombre de la persona",
					},
					"categoria": map[string]any{
						"type":        "string",
						"description": "Categoría breve de la nota",
					},
				},
				"required": []string{"nota"},
			},
		}),
	}
}
