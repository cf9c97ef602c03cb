package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"sam-server/internal/config"
	"sam-server/pkg/playable/sam"
)

// Issuer issues the JWT
const Issuer = "sam-server"

// Audience is the intended JWT audience
const Audience = "sam-client"

// Claims identify a player
type Claims struct {
	Name    string `json:"name"`
	IsAdmin bool   `json:"admin,omitempty"`
	jwtgo.RegisteredClaims
}

var publicKey *rsa.PublicKey
var privateKey *rsa.PrivateKey

// LoadKeys will load the public and private keys
// this method should only be called once.
func LoadKeys() {
	cfg := config.Instance().JWT
	privateKey = loadPrivateKey(cfg.PrivateKey)
	publicKey = loadPublicKey(cfg.PublicKey)
}

// Sign will sign a JWT for the player
func Sign(player sam.Player) (string, error) {
	if privateKey == nil {
		panic("LoadKeys() not called")
	}

	token := jwtgo.NewWithClaims(jwtgo.SigningMethodRS256, Claims{
		Name:    player.Name,
		IsAdmin: player.IsAdmin,
		RegisteredClaims: jwtgo.RegisteredClaims{
			Audience: jwtgo.ClaimStrings{Audience},
			ID:       uuid.New().String(),
			IssuedAt: jwtgo.NewNumericDate(time.Now()),
			Issuer:   Issuer,
			Subject:  player.ID,
		},
	})

	return token.SignedString(privateKey)
}

// ValidPlayer will validate a signed JWT and return the player it was signed for
func ValidPlayer(signedString string) (sam.Player, error) {
	if publicKey == nil {
		panic("LoadKeys() not called")
	}

	token, err := jwtgo.ParseWithClaims(signedString, &Claims{}, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodRSA); !ok {
			return nil, errors.New("expected RS256 signing method")
		}

		return publicKey, nil
	})

	if err != nil {
		return sam.Player{}, err
	}

	if !token.Valid {
		logrus.Warn("token claims were not valid. did not expect to reach this code")
		return sam.Player{}, errors.New("claims were not valid")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return sam.Player{}, fmt.Errorf("expected *jwt.Claims, got %T", token.Claims)
	}

	if !containsAudience(claims.Audience, Audience) {
		return sam.Player{}, errors.New("invalid audience")
	}

	if claims.Issuer != Issuer {
		return sam.Player{}, errors.New("invalid issuer")
	}

	if claims.Subject == "" {
		return sam.Player{}, errors.New("missing subject")
	}

	return sam.Player{
		ID:      claims.Subject,
		Name:    claims.Name,
		IsAdmin: claims.IsAdmin,
	}, nil
}

func loadPublicKey(path string) *rsa.PublicKey {
	b, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).Fatal("could not read file")
	}

	pem, err := jwtgo.ParseRSAPublicKeyFromPEM(b)
	if err != nil {
		logrus.WithError(err).Fatal("could not parse RSA public key")
	}

	return pem
}

func loadPrivateKey(path string) *rsa.PrivateKey {
	b, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).Fatal("could not read file")
	}

	pem, err := jwtgo.ParseRSAPrivateKeyFromPEM(b)
	if err != nil {
		logrus.WithError(err).Fatal("could not parse RSA private key")
	}

	return pem
}

func containsAudience(audiences jwtgo.ClaimStrings, target string) bool {
	for _, aud := range audiences {
		if aud == target {
			return true
		}
	}
	return false
}
