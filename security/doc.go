// Package security holds the TLS settings used for outbound vendor
// connections: a private CA for gateways that re-sign traffic, an optional
// client certificate for mTLS and a minimum protocol version.
//
//	providers:
//	  gpt:
//	    base_url: https://llm-proxy.internal/v1
//	    tls:
//	      ca_file: /etc/llmgate/proxy-ca.pem
package security
