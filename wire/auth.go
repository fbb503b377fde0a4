package wire

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/pgtypegen/pgtypegen/wire/scram"
)

// Authenticate drives the authentication sub-protocol to completion,
// dispatching on whichever AuthXxx message the server sent first. It
// supports the three mechanisms spec §4.3 requires: cleartext, MD5, and
// SCRAM-SHA-256. Anything else yields ErrUnsupportedAuthMethod.
func Authenticate(c *Connection, user, password string, first BackendMsg) error {
	switch m := first.(type) {
	case AuthOK:
		return nil
	case AuthCleartext:
		return authCleartextFlow(c, password)
	case AuthMD5:
		return authMD5Flow(c, user, password, m.Salt)
	case AuthSASL:
		return authSASLFlow(c, password, m.Mechanisms)
	default:
		return ErrUnsupportedAuthMethod
	}
}

func authCleartextFlow(c *Connection, password string) error {
	frame, err := EncodePassword(c.Writer(), password)
	if err != nil {
		return err
	}
	if err := c.Send(frame); err != nil {
		return err
	}
	return expectAuthOK(c)
}

func authMD5Flow(c *Connection, user, password string, salt [4]byte) error {
	hashed := "md5" + md5Hex(md5Hex(password+user)+string(salt[:]))
	frame, err := EncodePassword(c.Writer(), hashed)
	if err != nil {
		return err
	}
	if err := c.Send(frame); err != nil {
		return err
	}
	return expectAuthOK(c)
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func authSASLFlow(c *Connection, password string, mechanisms []string) error {
	supported := false
	for _, m := range mechanisms {
		if m == scram.MechanismName {
			supported = true
			break
		}
	}
	if !supported {
		return ErrUnsupportedAuthMethod
	}

	client, err := scram.NewClient(password)
	if err != nil {
		return err
	}

	firstFrame, err := EncodeSASLInitialResponse(c.Writer(), scram.MechanismName, client.FirstMessage())
	if err != nil {
		return err
	}
	if err := c.Send(firstFrame); err != nil {
		return err
	}

	msg, err := c.RecvMsg()
	if err != nil {
		return err
	}
	cont, ok := msg.(AuthSASLContinue)
	if !ok {
		return unexpectedDuringAuth(msg)
	}

	finalMessage, err := client.FinalMessage(cont.Data)
	if err != nil {
		return err
	}

	finalFrame, err := EncodeSASLResponse(c.Writer(), finalMessage)
	if err != nil {
		return err
	}
	if err := c.Send(finalFrame); err != nil {
		return err
	}

	msg, err = c.RecvMsg()
	if err != nil {
		return err
	}
	final, ok := msg.(AuthSASLFinal)
	if !ok {
		return unexpectedDuringAuth(msg)
	}
	if err := client.VerifyServerSignature(final.Data); err != nil {
		return ErrAuthenticationFailed
	}

	return expectAuthOK(c)
}

func expectAuthOK(c *Connection) error {
	msg, err := c.RecvMsg()
	if err != nil {
		return err
	}
	if _, ok := msg.(AuthOK); !ok {
		return unexpectedDuringAuth(msg)
	}
	return nil
}

func unexpectedDuringAuth(msg BackendMsg) error {
	if errResp, ok := msg.(ErrorResponse); ok {
		return decodeErrorToErr(errResp)
	}
	return fmt.Errorf("%w: unexpected message during authentication", ErrProtocolError)
}
