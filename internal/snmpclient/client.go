// Package snmpclient is the thin GET/WALK transport described in
// SPEC_FULL.md §4.1: it knows how to talk to one node over SNMPv2c and
// normalize the textual representation of what comes back, and nothing
// about tasks, handlers, or the store.
package snmpclient

import (
	"context"
	"fmt"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/netmonagent/snmp-poller/internal/errs"
	"github.com/netmonagent/snmp-poller/internal/model"
)

// NodeContext is everything the client needs to reach one device.
type NodeContext struct {
	IPv4      string
	Community string
	TimeoutMS int
	Retries   int
}

// timeoutFloor is the minimum timeout handed to the transport,
// regardless of what a node's TimeoutMS asks for (SPEC_FULL.md §4.1).
const timeoutFloor = time.Second

// Client issues GET and WALK requests against a single node.
type Client struct {
	snmp *gosnmp.GoSNMP
}

// New connects a Client to nodeCtx. The connection is reused across
// subsequent Get/Walk calls; callers should Close it when done with
// the node.
func New(nodeCtx NodeContext) (*Client, error) {
	timeout := time.Duration(nodeCtx.TimeoutMS) * time.Millisecond
	if timeout < timeoutFloor {
		timeout = timeoutFloor
	}
	retries := nodeCtx.Retries
	if retries <= 0 {
		retries = 1
	}

	g := &gosnmp.GoSNMP{
		Target:    nodeCtx.IPv4,
		Port:      161,
		Community: nodeCtx.Community,
		Version:   gosnmp.Version2c,
		Timeout:   timeout,
		Retries:   retries,
	}

	if err := g.Connect(); err != nil {
		return nil, errs.Wrap(classifyConnectErr(err), fmt.Errorf("snmp connect %s: %w", nodeCtx.IPv4, err))
	}

	return &Client{snmp: g}, nil
}

// Close releases the underlying UDP socket.
func (c *Client) Close() error {
	return c.snmp.Conn.Close()
}

// Get issues a single GET for oid and returns its normalized value.
func (c *Client) Get(ctx context.Context, oid string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	result, err := c.snmp.Get([]string{oid})
	if err != nil {
		return "", errs.Wrap(classifyRequestErr(err), fmt.Errorf("snmp get %s: %w", oid, err))
	}
	if len(result.Variables) == 0 {
		return "", errs.Wrap(errs.Transient, fmt.Errorf("snmp get %s: empty response", oid))
	}

	pdu := result.Variables[0]
	if pdu.Type == gosnmp.NoSuchObject || pdu.Type == gosnmp.NoSuchInstance || pdu.Type == gosnmp.EndOfMibView {
		return "", errs.Wrap(errs.Transient, fmt.Errorf("snmp get %s: no such object", oid))
	}

	return Normalize(pdu.Type, pdu.Value), nil
}

// Walk issues a lexicographic-ordered subtree retrieval rooted at
// baseOid, halting at the first OID no longer prefixed by it.
func (c *Client) Walk(ctx context.Context, baseOid string) ([]model.Binding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var bindings []model.Binding
	walkErr := c.snmp.BulkWalk(baseOid, func(pdu gosnmp.SnmpPDU) error {
		bindings = append(bindings, model.Binding{
			OID:   pdu.Name,
			Value: Normalize(pdu.Type, pdu.Value),
		})
		return nil
	})
	if walkErr != nil {
		return nil, errs.Wrap(classifyRequestErr(walkErr), fmt.Errorf("snmp walk %s: %w", baseOid, walkErr))
	}

	return bindings, nil
}

func classifyConnectErr(err error) errs.Category {
	return errs.Transient
}

func classifyRequestErr(err error) errs.Category {
	return errs.Transient
}
