// Package browser imports cookies from browser cookie stores into jar
// records. It reads Firefox (moz_cookies) and Chrome (cookies, unencrypted
// rows only) SQLite databases and Netscape cookie files, and can locate the
// default profile of installed browsers.
//
// Cookie values are never logged; only name and domain may appear in logs.
package browser
