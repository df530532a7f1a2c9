// Package nki reads Kontakt instrument files.
//
// The first four bytes of a file, interpreted big-endian, identify the
// variant:
//
//	0x5EE56EB3  version 1, flat little-endian layout
//	0x1290A87F  version 2, chunk container, little-endian numbers
//	0x7FA89012  version 2, chunk container, big-endian numbers
//	0x2F5C204E  monolith container (rejected)
//
// Files of Kontakt 4.2.2 and later are spotted by a signature at offset 12
// before the magic dispatch runs and are rejected as unsupported. Any
// other magic number is an unknown format.
//
// The Detector is front end agnostic: it reports every failure through a
// notify callback and returns an empty result, so scanning a folder of
// mixed files never stops at the first bad one. Successful decodes come
// back as model.MultisampleSource values with creator, category and
// keyword metadata inferred from the file's location.
package nki
