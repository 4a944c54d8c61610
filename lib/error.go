package lib

import (
	"fmt"
	"math"
)

type ErrorI interface {
	Code() ErrorCode     // Returns the error code
	Module() ErrorModule // Returns the error module
	error                // Implements the built-in error interface
}

var _ ErrorI = &Error{} // Ensures *Error implements ErrorI

type ErrorCode uint32 // Defines a type for error codes

type ErrorModule string // Defines a type for error modules

type Error struct {
	ECode   ErrorCode   `json:"code"`   // Error code
	EModule ErrorModule `json:"module"` // Error module
	Msg     string      `json:"msg"`    // Error message
}

func NewError(code ErrorCode, module ErrorModule, msg string) *Error {
	// Constructs a new Error instance
	return &Error{ECode: code, EModule: module, Msg: msg}
}

// Code() returns the associated error code
func (p *Error) Code() ErrorCode { return p.ECode }

// Module() returns module field
func (p *Error) Module() ErrorModule { return p.EModule }

// String() calls Error()
func (p *Error) String() string { return p.Error() }

// Error() returns a formatted string including module, code, and message
func (p *Error) Error() string {
	return fmt.Sprintf("\nModule:  %s\nCode:    %d\nMessage: %s", p.EModule, p.ECode, p.Msg)
}

const (
	NoCode ErrorCode = math.MaxUint32

	// Main Module
	MainModule ErrorModule = "main"

	// Main Module Error Codes
	CodeJSONMarshal       ErrorCode = 1
	CodeJSONUnmarshal     ErrorCode = 2
	CodeStringToBytes     ErrorCode = 3
	CodeWriteFile         ErrorCode = 4
	CodeReadFile          ErrorCode = 5
	CodeNilTransaction    ErrorCode = 6
	CodeInvalidAmount     ErrorCode = 7
	CodeInvalidNonce      ErrorCode = 8
	CodeSenderKeyMismatch ErrorCode = 9
	CodeInvalidSignature  ErrorCode = 10

	// Crypto Module
	CryptoModule ErrorModule = "crypto"

	// Crypto Module Error Codes
	CodeReadEntropy       ErrorCode = 1
	CodeInvalidPrivateKey ErrorCode = 2
	CodeInvalidPublicKey  ErrorCode = 3
	CodeInvalidAddress    ErrorCode = 4
	CodeKeystore          ErrorCode = 5

	// RPC Module
	RPCModule ErrorModule = "rpc"

	// RPC Module Error Codes
	CodeRPCTimeout   ErrorCode = 1
	CodePostRequest  ErrorCode = 2
	CodeGetRequest   ErrorCode = 3
	CodeHttpStatus   ErrorCode = 4
	CodeReadBody     ErrorCode = 5
	CodeSubmitFailed ErrorCode = 6
	CodeFailedListen ErrorCode = 7
	CodeServerFailed ErrorCode = 8
)

// error implementations below for the `lib` package
func newLogError(err error) ErrorI {
	return NewError(NoCode, MainModule, err.Error())
}

func ErrJSONMarshal(err error) ErrorI {
	return NewError(CodeJSONMarshal, MainModule, fmt.Sprintf("json.marshal() failed with err: %s", err.Error()))
}

func ErrJSONUnmarshal(err error) ErrorI {
	return NewError(CodeJSONUnmarshal, MainModule, fmt.Sprintf("json.unmarshal() failed with err: %s", err.Error()))
}

func ErrStringToBytes(err error) ErrorI {
	return NewError(CodeStringToBytes, MainModule, fmt.Sprintf("stringToBytes() failed with err: %s", err.Error()))
}

func ErrWriteFile(err error) ErrorI {
	return NewError(CodeWriteFile, MainModule, fmt.Sprintf("os.WriteFile() failed with err: %s", err.Error()))
}

func ErrReadFile(err error) ErrorI {
	return NewError(CodeReadFile, MainModule, fmt.Sprintf("os.ReadFile() failed with err: %s", err.Error()))
}

func ErrNilTransaction() ErrorI {
	return NewError(CodeNilTransaction, MainModule, "transaction is nil")
}

func ErrInvalidAmount(amount string) ErrorI {
	return NewError(CodeInvalidAmount, MainModule, fmt.Sprintf("amount %s is not a valid unsigned integer", amount))
}

func ErrInvalidNonce(nonce string) ErrorI {
	return NewError(CodeInvalidNonce, MainModule, fmt.Sprintf("nonce %s is not a valid unsigned integer", nonce))
}

func ErrSenderKeyMismatch(expected, got string) ErrorI {
	return NewError(CodeSenderKeyMismatch, MainModule, fmt.Sprintf("transaction sender %s does not match signing key address %s", expected, got))
}

func ErrInvalidSignature() ErrorI {
	return NewError(CodeInvalidSignature, MainModule, "signature is invalid")
}

func ErrReadEntropy(err error) ErrorI {
	return NewError(CodeReadEntropy, CryptoModule, fmt.Sprintf("entropy source read failed with err: %s", err.Error()))
}

func ErrInvalidPrivateKey(err error) ErrorI {
	return NewError(CodeInvalidPrivateKey, CryptoModule, fmt.Sprintf("private key is invalid: %s", err.Error()))
}

func ErrInvalidPublicKey(err error) ErrorI {
	return NewError(CodeInvalidPublicKey, CryptoModule, fmt.Sprintf("public key is invalid: %s", err.Error()))
}

func ErrInvalidAddress() ErrorI {
	return NewError(CodeInvalidAddress, CryptoModule, "address is invalid")
}

func ErrKeystore(err error) ErrorI {
	return NewError(CodeKeystore, CryptoModule, fmt.Sprintf("keystore operation failed with err: %s", err.Error()))
}

func ErrRPCTimeout() ErrorI {
	return NewError(CodeRPCTimeout, RPCModule, "rpc request timed out")
}

func ErrPostRequest(err error) ErrorI {
	return NewError(CodePostRequest, RPCModule, fmt.Sprintf("http.Post() failed with err: %s", err.Error()))
}

func ErrGetRequest(err error) ErrorI {
	return NewError(CodeGetRequest, RPCModule, fmt.Sprintf("http.Get() failed with err: %s", err.Error()))
}

func ErrHttpStatus(status string, statusCode int, body []byte) ErrorI {
	return NewError(CodeHttpStatus, RPCModule, fmt.Sprintf("http response bad status %s with code %d and body %s", status, statusCode, body))
}

func ErrReadBody(err error) ErrorI {
	return NewError(CodeReadBody, RPCModule, fmt.Sprintf("io.ReadAll(http.ResponseBody) failed with err: %s", err.Error()))
}

func ErrSubmitFailed(code int64, message string) ErrorI {
	return NewError(CodeSubmitFailed, RPCModule, fmt.Sprintf("node rejected the transaction with code %d: %s", code, message))
}

func ErrFailedListen(err error) ErrorI {
	return NewError(CodeFailedListen, RPCModule, fmt.Sprintf("net.Listen() failed with err: %s", err.Error()))
}

func ErrServerFailed(err error) ErrorI {
	return NewError(CodeServerFailed, RPCModule, fmt.Sprintf("rpc server failed with err: %s", err.Error()))
}
