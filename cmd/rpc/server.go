package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/alecthomas/units"
	"github.com/arbor-network/arbor-wallet/lib"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"
)

const transport = "tcp"

// Server is a verification-only development node. It speaks the same json-rpc protocol a
// real rollup node does, checks every submitted envelope against its own signature, and
// acknowledges with the transaction hash. It keeps no state and executes nothing, which
// makes it a drop-in target for wallet development and integration tests.
type Server struct {
	config   lib.Config
	logger   lib.LoggerI
	listener net.Listener
}

// NewServer constructs and returns a new dev node RPC server
func NewServer(config lib.Config, logger lib.LoggerI) *Server {
	return &Server{
		config: config,
		logger: logger,
	}
}

// Listen() binds the configured listen address, capping simultaneous connections
func (s *Server) Listen() lib.ErrorI {
	ln, er := net.Listen(transport, s.config.ListenAddress)
	if er != nil {
		return lib.ErrFailedListen(er)
	}
	s.listener = netutil.LimitListener(ln, s.config.MaxOpenConnections)
	return nil
}

// Addr() is the bound listen address; only valid after Listen()
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve() runs the RPC server on the bound listener until ctx is cancelled or the
// server fails. Shutdown drains in-flight requests before returning
func (s *Server) Serve(ctx context.Context) lib.ErrorI {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	// Create CORS policy
	cor := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS", "POST"},
	})

	// Create a default timeout for HTTP requests
	timeout := time.Duration(s.config.TimeoutS) * time.Second

	server := &http.Server{
		Handler: cor.Handler(http.TimeoutHandler(createRouter(s), timeout, lib.ErrRPCTimeout().Error())),
	}

	s.logger.Infof("Starting dev node RPC server at %s", s.Addr())

	var g errgroup.Group
	g.Go(func() error {
		if err := server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		return lib.ErrServerFailed(err)
	}
	s.logger.Info("Dev node RPC server stopped")
	return nil
}

// Version writes the dev node software version information
func (s *Server) Version(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	write(w, SoftwareVersion, http.StatusOK)
}

// RPC dispatches a json-rpc request to the handler for its method
func (s *Server) RPC(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	defer lib.CatchPanic(s.logger)
	// Unmarshal the HTTP request body into a json-rpc request instance.
	request := new(rpcRequest)
	if ok := unmarshal(w, r, request); !ok {
		return
	}
	if request.JSONRPC != JSONRPCVersion {
		writeError(w, request.ID, InvalidRequestCode, "unsupported json-rpc version")
		return
	}
	switch request.Method {
	case SubmitTransactionMethod:
		s.submitTransaction(w, request)
	default:
		writeError(w, request.ID, MethodNotFoundCode, "method not found: "+request.Method)
	}
}

// submitTransaction verifies an envelope against its own signature and acknowledges
// with the transaction hash
func (s *Server) submitTransaction(w http.ResponseWriter, request *rpcRequest) {
	if len(request.Params) != 1 {
		writeError(w, request.ID, InvalidParamsCode, "expected a single signed transaction param")
		return
	}
	// Unmarshal the param into the signed transaction envelope.
	stx := new(lib.SignedTransaction)
	if er := json.Unmarshal(request.Params[0], stx); er != nil {
		writeError(w, request.ID, InvalidParamsCode, er.Error())
		return
	}
	// A node never trusts the sender's bytes; the signature is checked against the
	// canonical encoding recomputed here.
	sender, err := stx.Verify()
	if err != nil {
		s.logger.Warnf("Rejected transaction: %s", err.Error())
		writeError(w, request.ID, TxRejectedCode, err.Error())
		return
	}
	hash, err := stx.Hash()
	if err != nil {
		writeError(w, request.ID, TxRejectedCode, err.Error())
		return
	}
	s.logger.Infof("Accepted transaction %s from %s", lib.BytesToTruncatedString(hash), sender.String())
	writeResult(w, request.ID, SubmitResult{TxHash: hash})
}

// logHandler serves as a middleware that logs incoming RPC calls for debugging purposes.
type logHandler struct {
	path string
	h    httprouter.Handle
}

// Handle
func (h logHandler) Handle(resp http.ResponseWriter, req *http.Request, p httprouter.Params) {
	// Uncomment the line below to enable endpoint path logging for debugging.
	// logger.Debug(h.path)

	// Call the actual handler function with the response, request, and parameters.
	h.h(resp, req, p)
}

// unmarshal reads request body and unmarshals it into ptr
func unmarshal(w http.ResponseWriter, r *http.Request, ptr any) bool {
	bz, err := io.ReadAll(io.LimitReader(r.Body, int64(units.MB)))
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return false
	}
	defer func() { _ = r.Body.Close() }()
	if err = json.Unmarshal(bz, ptr); err != nil {
		write(w, err, http.StatusBadRequest)
		return false
	}
	return true
}

// writeResult writes a successful json-rpc response
func writeResult(w http.ResponseWriter, id uint64, result any) {
	bz, err := lib.MarshalJSON(result)
	if err != nil {
		writeError(w, id, InternalErrorCode, err.Error())
		return
	}
	write(w, rpcResponse{JSONRPC: JSONRPCVersion, Result: bz, ID: id}, http.StatusOK)
}

// writeError writes a json-rpc error response; the transport status stays 200 so the
// caller can distinguish a node rejection from an HTTP failure
func writeError(w http.ResponseWriter, id uint64, code int64, message string) {
	write(w, rpcResponse{JSONRPC: JSONRPCVersion, Error: &rpcError{Code: code, Message: message}, ID: id}, http.StatusOK)
}

// write marshaled payload to w
func write(w http.ResponseWriter, payload any, code int) {
	w.Header().Set(ContentType, ApplicationJSON)
	w.WriteHeader(code)

	// Marshal and indent the payload
	bz, _ := json.MarshalIndent(payload, "", "  ")
	_, _ = w.Write(bz)
}
