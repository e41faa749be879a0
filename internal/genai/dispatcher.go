package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ferreadmin/internal/client/sync"
	"ferreadmin/internal/common"
	"ferreadmin/internal/models"
)

// CategoryExtractor is the model-call seam of the dispatcher.
type CategoryExtractor interface {
	ExtractCategory(ctx context.Context, message string) (*CategoryReply, error)
}

// Dispatcher runs the chat flow: persist the user's message, ask the model
// for a category, register it, and persist an outcome message.
// Every failure path resolves to a visible assistant message; nothing
// escapes the chat view.
type Dispatcher struct {
	extractor  CategoryExtractor
	chat       *sync.Collection[models.ChatMessage]
	categorias *sync.Collection[models.Categoria]
	now        func() time.Time
}

func NewDispatcher(extractor CategoryExtractor, chat *sync.Collection[models.ChatMessage], categorias *sync.Collection[models.Categoria]) *Dispatcher {
	return &Dispatcher{
		extractor:  extractor,
		chat:       chat,
		categorias: categorias,
		now:        time.Now,
	}
}

// Send processes one user message. Blank messages are ignored.
func (d *Dispatcher) Send(ctx context.Context, texto string) error {
	texto = strings.TrimSpace(texto)
	if texto == "" {
		return nil
	}

	if err := d.post(ctx, models.EmisorUsuario, texto); err != nil {
		return err
	}

	reply, err := d.extractor.ExtractCategory(ctx, texto)
	if err != nil {
		return d.post(ctx, models.EmisorIA, outcomeMessage(err))
	}

	if err := d.post(ctx, models.EmisorIA,
		fmt.Sprintf("Ok, vamos a registrar %q en la base de datos.", reply.Nombre)); err != nil {
		return err
	}

	if reply.Nombre == "" || reply.Descripcion == "" {
		return d.post(ctx, models.EmisorIA,
			"No se pudo registrar la categoría. La respuesta no contiene la información esperada.")
	}

	cat := models.Categoria{Nombre: reply.Nombre, Descripcion: reply.Descripcion}
	if err := d.categorias.Create(ctx, cat); err != nil {
		return d.post(ctx, models.EmisorIA,
			"Hubo un error al procesar tu solicitud. Por favor, intenta de nuevo más tarde.")
	}

	return d.post(ctx, models.EmisorIA,
		fmt.Sprintf("Categoría %q registrada con éxito.", reply.Nombre))
}

func (d *Dispatcher) post(ctx context.Context, emisor, texto string) error {
	return d.chat.Create(ctx, models.ChatMessage{
		Texto:     texto,
		Emisor:    emisor,
		Timestamp: d.now(),
	})
}

func outcomeMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrorRateLimited):
		return "Has alcanzado el límite de solicitudes. Intenta de nuevo más tarde."
	case strings.Contains(err.Error(), "JSON"):
		return "La IA no devolvió un JSON válido."
	default:
		return "No se pudo conectar con la IA. Verifica tu conexión o API Key."
	}
}
