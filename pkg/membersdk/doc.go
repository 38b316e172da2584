// Package membersdk is a Go client for the flock membership service.
//
// The zero-dependency wire types in this package double as the service's
// own request/response DTOs, so the HTTP handlers and the client can never
// drift apart.
//
// Unauthenticated operations hang off Client; operations that require a
// bearer token from the identity provider hang off Session:
//
//	client := membersdk.NewClient("https://membership.example.org")
//	session := client.WithToken(identityJWT)
//
//	resp, err := session.RedeemInvitation(ctx, membersdk.RedeemInvitationRequest{
//		InviteToken: token,
//		DisplayName: "New Member",
//	})
package membersdk
