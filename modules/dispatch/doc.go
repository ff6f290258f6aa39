// Package dispatch mounts the email API:
//
//	POST /send            send one payload
//	POST /batch           send many payloads in bounded waves
//	GET  /vendors         registered vendors and whether each is configured
//	GET  /test/{vendor}   check a vendor's configuration without sending mail
package dispatch
