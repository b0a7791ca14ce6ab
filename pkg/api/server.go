package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /tickets)
	ListTickets(w http.ResponseWriter, r *http.Request)
	// (POST /tickets)
	PurchaseTicket(w http.ResponseWriter, r *http.Request)
	// (POST /tickets/saved-card/{cardId})
	PurchaseWithSavedCard(w http.ResponseWriter, r *http.Request, cardId openapi_types.UUID)
	// (GET /tickets/{ticketId})
	GetTicket(w http.ResponseWriter, r *http.Request, ticketId openapi_types.UUID)
	// (GET /tickets/{ticketId}/qr.png)
	GetTicketQRCode(w http.ResponseWriter, r *http.Request, ticketId openapi_types.UUID, params GetTicketQRCodeParams)
	// (POST /scans)
	ScanCode(w http.ResponseWriter, r *http.Request)
	// (POST /scans/activate)
	ActivateTicket(w http.ResponseWriter, r *http.Request)
	// (GET /cards)
	ListCards(w http.ResponseWriter, r *http.Request)
	// (GET /cards/{cardId})
	GetCard(w http.ResponseWriter, r *http.Request, cardId openapi_types.UUID)
	// (DELETE /cards/{cardId})
	DeleteCard(w http.ResponseWriter, r *http.Request, cardId openapi_types.UUID)
	// (POST /ledger/balance)
	GetBalance(w http.ResponseWriter, r *http.Request)
}

// ServerInterfaceWrapper converts path and query parameters before calling
// the handler.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareFunc func(http.Handler) http.Handler

// InvalidParamFormatError is reported when a parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	var handler http.Handler = fn
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) uuidParam(w http.ResponseWriter, r *http.Request, name string) (openapi_types.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return id, false
	}
	return id, true
}

func (siw *ServerInterfaceWrapper) ListTickets(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.ListTickets)
}

func (siw *ServerInterfaceWrapper) PurchaseTicket(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.PurchaseTicket)
}

func (siw *ServerInterfaceWrapper) PurchaseWithSavedCard(w http.ResponseWriter, r *http.Request) {
	cardId, ok := siw.uuidParam(w, r, "cardId")
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.PurchaseWithSavedCard(w, r, cardId)
	})
}

func (siw *ServerInterfaceWrapper) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticketId, ok := siw.uuidParam(w, r, "ticketId")
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetTicket(w, r, ticketId)
	})
}

func (siw *ServerInterfaceWrapper) GetTicketQRCode(w http.ResponseWriter, r *http.Request) {
	ticketId, ok := siw.uuidParam(w, r, "ticketId")
	if !ok {
		return
	}

	var params GetTicketQRCodeParams
	if err := runtime.BindQueryParameter("form", true, false, "size", r.URL.Query(), &params.Size); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "size", Err: err})
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetTicketQRCode(w, r, ticketId, params)
	})
}

func (siw *ServerInterfaceWrapper) ScanCode(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.ScanCode)
}

func (siw *ServerInterfaceWrapper) ActivateTicket(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.ActivateTicket)
}

func (siw *ServerInterfaceWrapper) ListCards(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.ListCards)
}

func (siw *ServerInterfaceWrapper) GetCard(w http.ResponseWriter, r *http.Request) {
	cardId, ok := siw.uuidParam(w, r, "cardId")
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetCard(w, r, cardId)
	})
}

func (siw *ServerInterfaceWrapper) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardId, ok := siw.uuidParam(w, r, "cardId")
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.DeleteCard(w, r, cardId)
	})
}

func (siw *ServerInterfaceWrapper) GetBalance(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetBalance)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerFromMux mounts si on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{BaseRouter: r})
}

// HandlerWithOptions creates the http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/tickets", wrapper.ListTickets)
		r.Post(options.BaseURL+"/tickets", wrapper.PurchaseTicket)
		r.Post(options.BaseURL+"/tickets/saved-card/{cardId}", wrapper.PurchaseWithSavedCard)
		r.Get(options.BaseURL+"/tickets/{ticketId}", wrapper.GetTicket)
		r.Get(options.BaseURL+"/tickets/{ticketId}/qr.png", wrapper.GetTicketQRCode)
		r.Post(options.BaseURL+"/scans", wrapper.ScanCode)
		r.Post(options.BaseURL+"/scans/activate", wrapper.ActivateTicket)
		r.Get(options.BaseURL+"/cards", wrapper.ListCards)
		r.Get(options.BaseURL+"/cards/{cardId}", wrapper.GetCard)
		r.Delete(options.BaseURL+"/cards/{cardId}", wrapper.DeleteCard)
		r.Post(options.BaseURL+"/ledger/balance", wrapper.GetBalance)
	})

	return r
}
