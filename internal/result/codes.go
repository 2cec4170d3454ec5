// internal/result/codes.go
package result

import "errors"

// Host error numbers.
// These values are the host contract and MUST NOT be configurable.

// ---- HOST-DEFINED (FSERR.CTL) ----

// CodeOK is success.
const CodeOK int32 = 0

// CodeIllegalMode covers out-of-range modes, the reserved focus mode and anything unmapped.
const CodeIllegalMode int32 = -1

// CodeTimeout is a controller link that did not complete in time.
const CodeTimeout int32 = -2

// CodeBadLength is a reply with the wrong number of characters (none at all, usually).
const CodeBadLength int32 = -3

// CodeNotRemote is a controller that does not accept connections.
const CodeNotRemote int32 = -4

// CodeDevice is an error returned by the antenna controller.
const CodeDevice int32 = -5

// CodePointingModel is a failed pointing model initialization.
const CodePointingModel int32 = -6

// ---- DOMAIN TAGS ----

// Domain is the two-character error table tag.
type Domain [2]byte

func (d Domain) String() string { return string(d[:]) }

// DomainHost marks codes listed in the host's FSERR.CTL.
var DomainHost = Domain{'A', 'N'}

// DomainSite marks site-defined codes listed in STERR.CTL.
var DomainSite = Domain{'S', 'T'}

// DomainFor picks the error table a code belongs to.
func DomainFor(code int32) Domain {
	if code <= CodeOK && code >= CodePointingModel {
		return DomainHost
	}
	return DomainSite
}

// ---- SENTINELS ----

var (
	ErrIllegalMode   = errors.New("illegal mode")
	ErrPointingModel = errors.New("pointing model initialization failed")
)
