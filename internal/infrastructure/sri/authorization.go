// Package sri lee las respuestas del servicio de autorización de comprobantes del SRI.
package sri

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Estados que devuelve el SRI en <estado>.
const (
	StatusAuthorized    = "AUTORIZADO"
	StatusNotAuthorized = "NO AUTORIZADO"
)

// Authorization datos relevantes de un nodo <autorizacion>.
type Authorization struct {
	Status              string
	AuthorizationNumber string
	AuthorizedAt        time.Time // cero si la fecha no vino o no se pudo leer
	AccessKey           string
}

// Authorized indica si el SRI aceptó el comprobante.
func (a Authorization) Authorized() bool {
	return a.Status == StatusAuthorized
}

// AuthorizationReader interpreta la respuesta de autorización del SRI.
// Acepta tanto el nodo <autorizacion> suelto como la respuesta completa
// <RespuestaAutorizacionComprobante>, en UTF-8 o ISO-8859-1.
type AuthorizationReader struct{}

// NewAuthorizationReader construye el lector.
func NewAuthorizationReader() *AuthorizationReader {
	return &AuthorizationReader{}
}

// Read extrae estado, número, fecha y clave de acceso del payload.
func (AuthorizationReader) Read(payload string) (Authorization, error) {
	doc, err := parse(payload)
	if err != nil {
		return Authorization{}, err
	}
	node := doc.FindElement("//autorizacion")
	if node == nil {
		return Authorization{}, fmt.Errorf("sri: el XML no contiene <autorizacion>")
	}

	out := Authorization{
		Status:              text(node, "estado"),
		AuthorizationNumber: text(node, "numeroAutorizacion"),
		AccessKey:           accessKey(doc, node),
	}
	if raw := text(node, "fechaAutorizacion"); raw != "" {
		out.AuthorizedAt = parseAuthorizationDate(raw)
	}
	return out, nil
}

func parse(payload string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromString(strings.TrimSpace(payload)); err != nil {
		return nil, fmt.Errorf("sri: parsear autorización: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("sri: documento sin raíz")
	}
	return doc, nil
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") || strings.EqualFold(charset, "latin1") {
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	}
	return input, nil
}

func text(parent *etree.Element, tag string) string {
	if el := parent.SelectElement(tag); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}

// accessKey busca la clave consultada en la respuesta y, si no está, la del
// comprobante embebido (CDATA) en infoTributaria/claveAcceso.
func accessKey(doc *etree.Document, node *etree.Element) string {
	if el := doc.FindElement("//claveAccesoConsultada"); el != nil {
		return strings.TrimSpace(el.Text())
	}
	if el := node.FindElement(".//claveAcceso"); el != nil {
		return strings.TrimSpace(el.Text())
	}
	comprobante := text(node, "comprobante")
	if comprobante == "" {
		return ""
	}
	inner, err := parse(comprobante)
	if err != nil {
		return ""
	}
	if el := inner.FindElement("//infoTributaria/claveAcceso"); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000-07:00",
	"02/01/2006 15:04:05",
}

func parseAuthorizationDate(raw string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
