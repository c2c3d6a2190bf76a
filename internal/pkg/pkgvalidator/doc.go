// Package pkgvalidator checks struct constraints declared with `validate` tags
// and reports them as a pkgerror.ValidationError, one message per field.
//
// Messages come from the validated value when it implements Messenger, keyed
// by "Field.tag" or just "Field". Besides the stock go-playground tags it
// understands:
//   - enum: the value implements interface{ Valid() bool }.
//   - weburl: an http(s) URL.
//   - mailaddr: an e-mail address.
package pkgvalidator
