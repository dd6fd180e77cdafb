package storage

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// cannedACLs are the canned access-control policies accepted on the command
// line, in help-text order.
var cannedACLs = []types.ObjectCannedACL{
	types.ObjectCannedACLPrivate,
	types.ObjectCannedACLPublicRead,
	types.ObjectCannedACLPublicReadWrite,
	types.ObjectCannedACLAuthenticatedRead,
	types.ObjectCannedACLBucketOwnerRead,
	types.ObjectCannedACLBucketOwnerFullControl,
}

// DefaultACL is applied when no --acl flag or config value is given.
const DefaultACL = types.ObjectCannedACLPrivate

// ParseACL validates a canned ACL name.
func ParseACL(s string) (types.ObjectCannedACL, error) {
	for _, acl := range cannedACLs {
		if s == string(acl) {
			return acl, nil
		}
	}
	return "", fmt.Errorf("invalid ACL %q (one of: %s)", s, ACLNames())
}

// ACLNames returns the accepted ACL names as a comma-separated list, for
// help and error text.
func ACLNames() string {
	names := make([]string, len(cannedACLs))
	for i, acl := range cannedACLs {
		names[i] = string(acl)
	}
	return strings.Join(names, ", ")
}
