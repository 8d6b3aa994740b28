/*
Package gateway_client provides a typed and convenient interface to interact with the GMS REST API,
plus a compiler that derives gateway operation tables from in-process route trees.

It wraps raw HTTP operations in a structured API, exposing high-level methods to manage GMS resources
like apis, operations, revisions, policies, backends and named values. Each resource is available as a
sub-client that supports common CRUD operations (List, Get, GetById, Create, Update, Delete, etc.).

The main entry point for the remote side is the GMSRest client, which is initialized using a GMSConfig
configuration struct. This configuration allows customization of connection parameters, credentials
(username/password, api token or shared-access pair), SSL behavior, request timeouts, and
request/response hooks.

The routetree package compiles a routing tree into a deduplicated operation table; the mirror package
pushes a compiled table to the GMS, diffing against a local snapshot so unchanged operations are skipped.
*/
package gateway_client
